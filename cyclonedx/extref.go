package cyclonedx

// ExternalReferenceType classifies an external reference
type ExternalReferenceType string

// ExternalReferenceType values
const (
	VCS           ExternalReferenceType = "vcs"
	IssueTracker  ExternalReferenceType = "issue-tracker"
	Website       ExternalReferenceType = "website"
	Advisories    ExternalReferenceType = "advisories"
	BOMReference  ExternalReferenceType = "bom"
	MailingList   ExternalReferenceType = "mailing-list"
	Social        ExternalReferenceType = "social"
	Chat          ExternalReferenceType = "chat"
	Documentation ExternalReferenceType = "documentation"
	Support       ExternalReferenceType = "support"
	Distribution  ExternalReferenceType = "distribution"
	License       ExternalReferenceType = "license"
	BuildMeta     ExternalReferenceType = "build-meta"
	BuildSystem   ExternalReferenceType = "build-system"
	Other         ExternalReferenceType = "other"
)

// ExternalReferenceTypes lists every reference type this model knows about
var ExternalReferenceTypes = []ExternalReferenceType{
	VCS, IssueTracker, Website, Advisories, BOMReference, MailingList, Social,
	Chat, Documentation, Support, Distribution, License, BuildMeta, BuildSystem, Other,
}

// ParseExternalReferenceType returns the matching type, or Other
func ParseExternalReferenceType(name string) ExternalReferenceType {
	for _, t := range ExternalReferenceTypes {
		if string(t) == name {
			return t
		}
	}
	return Other
}

// ExternalReference points at a resource related to a component
type ExternalReference struct {
	Type    ExternalReferenceType
	URL     string
	Comment string
	Hashes  *HashDictionary
}
