package spec

import "github.com/mattermost/cdxbom/cyclonedx"

type row struct {
	version                   Version
	formats                   map[Format]bool
	componentTypes            map[cyclonedx.Classification]bool
	hashAlgorithms            map[cyclonedx.HashAlgorithm]bool
	externalReferenceTypes    map[cyclonedx.ExternalReferenceType]bool
	licenseExpression         bool
	licenseURL                bool
	metadata                  bool
	bomRef                    bool
	dependencies              bool
	serialNumber              bool
	properties                bool
	externalReferenceHashes   bool
	toolHashes                bool
	componentVersionRequired  bool
	componentModifiedRequired bool
}

var (
	types10 = set(
		cyclonedx.Application, cyclonedx.Framework, cyclonedx.Library,
		cyclonedx.OperatingSystem, cyclonedx.Device,
	)
	types11 = set(
		cyclonedx.Application, cyclonedx.Framework, cyclonedx.Library,
		cyclonedx.OperatingSystem, cyclonedx.Device, cyclonedx.File,
	)
	types12 = set(
		cyclonedx.Application, cyclonedx.Framework, cyclonedx.Library, cyclonedx.Container,
		cyclonedx.OperatingSystem, cyclonedx.Device, cyclonedx.Firmware, cyclonedx.File,
	)

	hashes10 = set(
		cyclonedx.MD5, cyclonedx.SHA1, cyclonedx.SHA256, cyclonedx.SHA384, cyclonedx.SHA512,
		cyclonedx.SHA3_256, cyclonedx.SHA3_512,
	)
	hashes11 = set(
		cyclonedx.MD5, cyclonedx.SHA1, cyclonedx.SHA256, cyclonedx.SHA384, cyclonedx.SHA512,
		cyclonedx.SHA3_256, cyclonedx.SHA3_384, cyclonedx.SHA3_512,
		cyclonedx.BLAKE2b256, cyclonedx.BLAKE2b384, cyclonedx.BLAKE2b512, cyclonedx.BLAKE3,
	)

	refs11 = set(cyclonedx.ExternalReferenceTypes...)
)

var table = map[Version]*row{
	V1_0: {
		version:                   V1_0,
		formats:                   set(XML),
		componentTypes:            types10,
		hashAlgorithms:            hashes10,
		externalReferenceTypes:    set[cyclonedx.ExternalReferenceType](),
		componentVersionRequired:  true,
		componentModifiedRequired: true,
	},
	V1_1: {
		version:                  V1_1,
		formats:                  set(XML),
		componentTypes:           types11,
		hashAlgorithms:           hashes11,
		externalReferenceTypes:   refs11,
		licenseExpression:        true,
		licenseURL:               true,
		bomRef:                   true,
		serialNumber:             true,
		componentVersionRequired: true,
	},
	V1_2: {
		version:                  V1_2,
		formats:                  set(XML, JSON),
		componentTypes:           types12,
		hashAlgorithms:           hashes11,
		externalReferenceTypes:   refs11,
		licenseExpression:        true,
		licenseURL:               true,
		metadata:                 true,
		bomRef:                   true,
		dependencies:             true,
		serialNumber:             true,
		toolHashes:               true,
		componentVersionRequired: true,
	},
	V1_3: {
		version:                  V1_3,
		formats:                  set(XML, JSON),
		componentTypes:           types12,
		hashAlgorithms:           hashes11,
		externalReferenceTypes:   refs11,
		licenseExpression:        true,
		licenseURL:               true,
		metadata:                 true,
		bomRef:                   true,
		dependencies:             true,
		serialNumber:             true,
		properties:               true,
		externalReferenceHashes:  true,
		toolHashes:               true,
		componentVersionRequired: true,
	},
}

func set[T comparable](values ...T) map[T]bool {
	m := make(map[T]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
