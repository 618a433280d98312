// Package cyclonedx holds the format-agnostic model of a CycloneDX bill of
// materials. Nothing in here knows about spec versions or wire formats;
// checks against a spec version happen when the model is normalized.
package cyclonedx
