package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// HCLManifestRepository reads a top-level `version = "..."` attribute from
// HCL files such as Packer or Nomad definitions.
type HCLManifestRepository struct{}

// NewHCLManifestRepository creates the HCL manifest reader.
func NewHCLManifestRepository() repositories.ManifestRepository {
	return &HCLManifestRepository{}
}

func (it *HCLManifestRepository) Name() string { return "hcl" }

func (it *HCLManifestRepository) Matches(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".hcl")
}

func (it *HCLManifestRepository) Version(content []byte, file string) (string, error) {
	parser := hclparse.NewParser()
	parsed, diags := parser.ParseHCL(content, filepath.Base(file))
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to parse %s: %s", file, diags.Error())
	}

	bodyContent, _, diags := parsed.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "version", Required: false}},
	})
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to read %s: %s", file, diags.Error())
	}

	attr, ok := bodyContent.Attributes["version"]
	if !ok {
		return "", fmt.Errorf("%s: %w", file, errNoVersionField)
	}
	value, diags := attr.Expr.Value(&hcl.EvalContext{})
	if diags.HasErrors() || value.IsNull() || value.Type() != cty.String {
		return "", fmt.Errorf("%s: version is not a string literal", file)
	}
	return value.AsString(), nil
}
