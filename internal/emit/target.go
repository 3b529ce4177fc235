package emit

import (
	"fmt"
	"strings"
)

// Location points at the declaration of a target type.
type Location struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

// IsZero reports whether the location is unknown.
func (l Location) IsZero() bool {
	return l.File == ""
}

// String renders "file:line", or just "file" when the line is unknown.
func (l Location) String() string {
	if l.Line <= 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Target identifies the type that receives the generated members.
type Target struct {
	// Name is the simple type name, without type parameters.
	Name string `yaml:"name" json:"name"`
	// Namespace is the containing namespace or Go package; empty means global scope.
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	// FullName is the stable identifier used to name the artifact.
	// Derived from Namespace, Name and TypeParams when empty.
	FullName string `yaml:"full_name,omitempty" json:"full_name,omitempty"`
	// TypeParams lists generic parameter names in declaration order.
	TypeParams []string `yaml:"type_params,omitempty" json:"type_params,omitempty"`
	// Location is where the type is declared, for diagnostics.
	Location Location `yaml:"-" json:"-"`
}

// Identifier returns FullName, deriving "Namespace.Name<T,U>" when unset.
func (t Target) Identifier() string {
	if t.FullName != "" {
		return t.FullName
	}
	id := t.Name
	if t.Namespace != "" {
		id = t.Namespace + "." + id
	}
	if len(t.TypeParams) > 0 {
		id += "<" + strings.Join(t.TypeParams, ",") + ">"
	}
	return id
}

// Validate checks the fields every renderer relies on.
func (t Target) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("target has no type name")
	}
	if strings.ContainsAny(t.Name, "<>[] \t\n") {
		return fmt.Errorf("target name %q must not contain type parameters or whitespace", t.Name)
	}
	for _, p := range t.TypeParams {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("target %s has an empty type parameter", t.Name)
		}
	}
	return nil
}

// Unit is one rendered source file.
type Unit struct {
	Name   string
	Source []byte
}

// artifactSuffix marks files produced by this generator.
const artifactSuffix = ".GitInformationGenerator.g."

var genericReplacer = strings.NewReplacer("<", "_", ">", "_", "[", "_", "]", "_")

// ArtifactName derives the output file name for target: its identifier
// with generic brackets replaced by underscores, plus the generator suffix
// and the language's extension.
func ArtifactName(target Target, lang Language) string {
	return genericReplacer.Replace(target.Identifier()) + artifactSuffix + lang.Ext
}
