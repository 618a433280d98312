package cyclonedx

// LicenseChoice is either DisjunctiveLicenses or a LicenseExpression.
// A nil LicenseChoice means the component declares no license.
type LicenseChoice interface {
	isLicenseChoice()
}

// DisjunctiveLicense is a single license given by SPDX id or by name.
// When ID is set, Name is ignored.
type DisjunctiveLicense struct {
	ID   string
	Name string
	Text string
	URL  string
}

// DisjunctiveLicenses is a set of licenses any of which may apply
type DisjunctiveLicenses []DisjunctiveLicense

// LicenseExpression is a free-form SPDX license expression
type LicenseExpression string

func (DisjunctiveLicenses) isLicenseChoice() {}
func (LicenseExpression) isLicenseChoice()   {}

// NewLicenseID returns a license identified by an SPDX id
func NewLicenseID(id string) DisjunctiveLicense {
	return DisjunctiveLicense{ID: id}
}

// NewLicenseName returns a license identified by free text
func NewLicenseName(name string) DisjunctiveLicense {
	return DisjunctiveLicense{Name: name}
}

// DegradeExpression turns an expression into the one disjunctive license
// that carries the raw expression as its name. An expression is not a
// validated SPDX id, so it never lands in ID.
func DegradeExpression(expression LicenseExpression) DisjunctiveLicenses {
	return DisjunctiveLicenses{NewLicenseName(string(expression))}
}
