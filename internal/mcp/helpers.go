package mcp

import (
	"github.com/gorewood/gitinfo/internal/emit"
	"github.com/gorewood/gitinfo/internal/generator"
	"github.com/gorewood/gitinfo/internal/metadata"
)

// toMetadataOutput flattens md for the wire.
func toMetadataOutput(usable bool, md metadata.Metadata) MetadataOutput {
	return MetadataOutput{
		Usable: usable,
		Branch: md.Branch(),
		Hash:   md.Hash(),
		Tags:   md.Tags(),
	}
}

// toDiagnosticOutput converts a generator diagnostic; nil stays nil.
func toDiagnosticOutput(diag *generator.Diagnostic) *DiagnosticOutput {
	if diag == nil {
		return nil
	}
	return &DiagnosticOutput{
		ID:       diag.ID,
		Severity: string(diag.Severity),
		Message:  diag.Message,
	}
}

// resolveLanguage picks the named language, or fallback when name is empty.
func resolveLanguage(name string, fallback emit.Language) (emit.Language, error) {
	if name == "" {
		return fallback, nil
	}
	return emit.LanguageByName(name)
}
