package validate

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/spec"
)

var serialNumberPattern = regexp.MustCompile(`^urn:uuid:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// node is a generic XML element
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

func (n *node) attr(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name.Local == name && attr.Name.Space == "" {
			return attr.Value, true
		}
	}
	return "", false
}

func (n *node) children(name string) []*node {
	var out []*node
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

func (n *node) text() string {
	return strings.TrimSpace(n.Content)
}

// XMLValidator validates CycloneDX XML with a structural checker derived
// from the capability table
type XMLValidator struct{}

// NewXML returns an XML validator
func NewXML() *XMLValidator {
	return &XMLValidator{}
}

// Format returns spec.XML
func (v *XMLValidator) Format() spec.Format { return spec.XML }

// Validate checks data against the rules of version
func (v *XMLValidator) Validate(data []byte, version spec.Version) (*ValidationError, error) {
	s, err := spec.Lookup(version)
	if err != nil {
		return nil, &SchemaLoadError{Format: spec.XML, Version: version, Err: err}
	}

	var root node
	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&root); err != nil {
		return nil, &UnparseableDocumentError{Format: spec.XML, Err: err}
	}

	c := &xmlChecker{spec: s, refs: make(map[string]bool)}
	c.checkBom(&root)
	return result(c.errors), nil
}

type xmlChecker struct {
	spec   *spec.Spec
	refs   map[string]bool
	errors []string
}

func (c *xmlChecker) errorf(path, format string, args ...interface{}) {
	c.errors = append(c.errors, path+": "+fmt.Sprintf(format, args...))
}

func (c *xmlChecker) namespace(n *node, path string) {
	if n.XMLName.Space != c.spec.XMLNamespace() {
		c.errorf(path, "element is in namespace '%s', expected '%s'", n.XMLName.Space, c.spec.XMLNamespace())
	}
}

// allowed reports every child of n that is not in names
func (c *xmlChecker) allowed(n *node, path string, names ...string) {
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}
	for i := range n.Nodes {
		child := &n.Nodes[i]
		if !known[child.XMLName.Local] {
			c.errorf(path, "unexpected element '%s'", child.XMLName.Local)
			continue
		}
		c.namespace(child, path+"/"+child.XMLName.Local)
	}
}

func (c *xmlChecker) checkBom(bom *node) {
	path := "/" + bom.XMLName.Local
	if bom.XMLName.Local != "bom" {
		c.errorf(path, "root element must be 'bom'")
		return
	}
	c.namespace(bom, path)

	if version, ok := bom.attr("version"); !ok {
		c.errorf(path, "missing version attribute")
	} else if n, err := strconv.Atoi(version); err != nil || n < 1 {
		c.errorf(path, "version '%s' is not a positive integer", version)
	}
	if serial, ok := bom.attr("serialNumber"); ok {
		if !c.spec.SupportsSerialNumber() {
			c.errorf(path, "serialNumber is not supported")
		} else if !serialNumberPattern.MatchString(serial) {
			c.errorf(path, "serialNumber '%s' is not a uuid urn", serial)
		}
	}

	names := []string{"components"}
	if c.spec.SupportsMetaData() {
		names = append(names, "metadata")
	}
	if c.spec.SupportsExternalReferences() {
		names = append(names, "externalReferences")
	}
	if c.spec.SupportsDependencies() {
		names = append(names, "dependencies")
	}
	c.allowed(bom, path, names...)

	if c.spec.SupportsMetaData() {
		for _, metadata := range bom.children("metadata") {
			c.checkMetaData(metadata, path+"/metadata")
		}
	}
	components := bom.children("components")
	if len(components) != 1 {
		c.errorf(path, "expected exactly one components element, found %d", len(components))
	}
	for _, list := range components {
		c.checkComponents(list, path+"/components")
	}
	if c.spec.SupportsExternalReferences() {
		for _, refs := range bom.children("externalReferences") {
			c.checkExternalReferences(refs, path+"/externalReferences")
		}
	}
	// dependencies are checked last so every bom-ref is known
	if c.spec.SupportsDependencies() {
		for _, dependencies := range bom.children("dependencies") {
			c.checkDependencies(dependencies, path+"/dependencies")
		}
	}
}

func (c *xmlChecker) checkMetaData(metadata *node, path string) {
	names := []string{"timestamp", "tools", "authors", "component", "manufacture", "supplier"}
	if c.spec.SupportsProperties() {
		names = append(names, "licenses", "properties")
	}
	c.allowed(metadata, path, names...)
	for _, tools := range metadata.children("tools") {
		c.allowed(tools, path+"/tools", "tool")
		for i, tool := range tools.children("tool") {
			c.checkTool(tool, fmt.Sprintf("%s/tools/tool[%d]", path, i+1))
		}
	}
	for _, component := range metadata.children("component") {
		c.checkComponent(component, path+"/component")
	}
}

func (c *xmlChecker) checkTool(tool *node, path string) {
	names := []string{"vendor", "name", "version"}
	if c.spec.SupportsToolHashes() {
		names = append(names, "hashes")
	}
	c.allowed(tool, path, names...)
	for _, hashes := range tool.children("hashes") {
		c.checkHashes(hashes, path+"/hashes")
	}
}

func (c *xmlChecker) checkComponents(list *node, path string) {
	c.allowed(list, path, "component")
	for i, component := range list.children("component") {
		c.checkComponent(component, fmt.Sprintf("%s/component[%d]", path, i+1))
	}
}

func (c *xmlChecker) checkComponent(component *node, path string) {
	if typ, ok := component.attr("type"); !ok {
		c.errorf(path, "missing type attribute")
	} else if !c.spec.IsSupportedComponentType(cyclonedx.Classification(typ)) {
		c.errorf(path, "component type '%s' is not supported", typ)
	}
	if ref, ok := component.attr("bom-ref"); ok {
		switch {
		case !c.spec.SupportsBomRef():
			c.errorf(path, "bom-ref is not supported")
		case ref == "":
			c.errorf(path, "bom-ref is empty")
		case c.refs[ref]:
			c.errorf(path, "bom-ref '%s' is not unique", ref)
		default:
			c.refs[ref] = true
		}
	}

	names := []string{
		"publisher", "group", "name", "version", "description", "scope",
		"hashes", "licenses", "copyright", "cpe", "purl", "modified", "components",
	}
	if c.spec.SupportsExternalReferences() {
		names = append(names, "supplier", "author", "swid", "pedigree", "externalReferences")
	}
	if c.spec.SupportsProperties() {
		names = append(names, "properties")
	}
	c.allowed(component, path, names...)

	if len(component.children("name")) != 1 {
		c.errorf(path, "expected exactly one name element")
	}
	if c.spec.RequiresComponentVersion() && len(component.children("version")) != 1 {
		c.errorf(path, "expected exactly one version element")
	}
	if c.spec.RequiresComponentModified() && len(component.children("modified")) != 1 {
		c.errorf(path, "expected exactly one modified element")
	}
	for _, modified := range component.children("modified") {
		if _, err := strconv.ParseBool(modified.text()); err != nil {
			c.errorf(path+"/modified", "'%s' is not a boolean", modified.text())
		}
	}
	for _, hashes := range component.children("hashes") {
		c.checkHashes(hashes, path+"/hashes")
	}
	for _, licenses := range component.children("licenses") {
		c.checkLicenses(licenses, path+"/licenses")
	}
	for _, refs := range component.children("externalReferences") {
		c.checkExternalReferences(refs, path+"/externalReferences")
	}
	for _, properties := range component.children("properties") {
		c.allowed(properties, path+"/properties", "property")
		for i, property := range properties.children("property") {
			if name, ok := property.attr("name"); !ok || name == "" {
				c.errorf(fmt.Sprintf("%s/properties/property[%d]", path, i+1), "missing name attribute")
			}
		}
	}
	for _, nested := range component.children("components") {
		c.checkComponents(nested, path+"/components")
	}
}

func (c *xmlChecker) checkHashes(hashes *node, path string) {
	c.allowed(hashes, path, "hash")
	for i, hash := range hashes.children("hash") {
		hashPath := fmt.Sprintf("%s/hash[%d]", path, i+1)
		alg, ok := hash.attr("alg")
		if !ok {
			c.errorf(hashPath, "missing alg attribute")
		} else if !c.spec.IsSupportedHashAlgorithm(cyclonedx.HashAlgorithm(alg)) {
			c.errorf(hashPath, "hash algorithm '%s' is not supported", alg)
		}
		if !c.spec.IsSupportedHashContent(hash.text()) {
			c.errorf(hashPath, "hash content '%s' is not a supported digest", hash.text())
		}
	}
}

func (c *xmlChecker) checkLicenses(licenses *node, path string) {
	names := []string{"license"}
	if c.spec.SupportsLicenseExpression() {
		names = append(names, "expression")
	}
	c.allowed(licenses, path, names...)

	list := licenses.children("license")
	expressions := licenses.children("expression")
	switch {
	case len(expressions) > 1:
		c.errorf(path, "expected at most one expression")
	case len(expressions) == 1 && len(list) > 0:
		c.errorf(path, "licenses must hold either license elements or one expression")
	}
	for _, expression := range expressions {
		if expression.text() == "" {
			c.errorf(path+"/expression", "expression is empty")
		}
	}

	fields := []string{"id", "name", "text"}
	if c.spec.SupportsLicenseURL() {
		fields = append(fields, "url")
	}
	for i, license := range list {
		licensePath := fmt.Sprintf("%s/license[%d]", path, i+1)
		c.allowed(license, licensePath, fields...)
		if n := len(license.children("id")) + len(license.children("name")); n != 1 {
			c.errorf(licensePath, "expected exactly one of id or name, found %d", n)
		}
	}
}

func (c *xmlChecker) checkExternalReferences(refs *node, path string) {
	c.allowed(refs, path, "reference")
	fields := []string{"url", "comment"}
	if c.spec.SupportsExternalReferenceHashes() {
		fields = append(fields, "hashes")
	}
	for i, ref := range refs.children("reference") {
		refPath := fmt.Sprintf("%s/reference[%d]", path, i+1)
		if typ, ok := ref.attr("type"); !ok {
			c.errorf(refPath, "missing type attribute")
		} else if !c.spec.IsSupportedExternalReferenceType(cyclonedx.ExternalReferenceType(typ)) {
			c.errorf(refPath, "reference type '%s' is not supported", typ)
		}
		c.allowed(ref, refPath, fields...)
		if urls := ref.children("url"); len(urls) != 1 || urls[0].text() == "" {
			c.errorf(refPath, "expected exactly one non-empty url")
		}
		for _, hashes := range ref.children("hashes") {
			c.checkHashes(hashes, refPath+"/hashes")
		}
	}
}

func (c *xmlChecker) checkDependencies(dependencies *node, path string) {
	c.allowed(dependencies, path, "dependency")
	for i, dependency := range dependencies.children("dependency") {
		dependencyPath := fmt.Sprintf("%s/dependency[%d]", path, i+1)
		c.checkRef(dependency, dependencyPath)
		c.allowed(dependency, dependencyPath, "dependency")
		for j, target := range dependency.children("dependency") {
			targetPath := fmt.Sprintf("%s/dependency[%d]", dependencyPath, j+1)
			c.checkRef(target, targetPath)
			if len(target.Nodes) > 0 {
				c.errorf(targetPath, "nested dependency must not have children")
			}
		}
	}
}

func (c *xmlChecker) checkRef(dependency *node, path string) {
	ref, ok := dependency.attr("ref")
	switch {
	case !ok || ref == "":
		c.errorf(path, "missing ref attribute")
	case !c.refs[ref]:
		c.errorf(path, "ref '%s' does not match any bom-ref", ref)
	}
}
