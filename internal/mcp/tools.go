package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/gitinfo/internal/emit"
	"github.com/gorewood/gitinfo/internal/generator"
	"github.com/gorewood/gitinfo/internal/metadata"
)

// --- Metadata tool ---

// MetadataInput is the input for the metadata tool (no parameters needed).
type MetadataInput struct{}

// MetadataOutput is the output for the metadata tool.
type MetadataOutput struct {
	Usable bool     `json:"usable" jsonschema:"whether git could describe the working directory"`
	Branch string   `json:"branch" jsonschema:"current branch, empty when unknown"`
	Hash   string   `json:"hash"   jsonschema:"full commit hash, empty when unknown"`
	Tags   []string `json:"tags"   jsonschema:"tags containing the commit, in git's order"`
}

func handleMetadata(repo metadata.Repository) mcp.ToolHandlerFor[MetadataInput, MetadataOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ MetadataInput) (*mcp.CallToolResult, MetadataOutput, error) {
		usable, err := repo.Usable(ctx)
		if err != nil {
			return nil, MetadataOutput{}, fmt.Errorf("checking repository: %w", err)
		}
		if !usable {
			return nil, MetadataOutput{Tags: []string{}}, nil
		}

		md, err := metadata.Extract(ctx, repo)
		if err != nil {
			return nil, MetadataOutput{}, fmt.Errorf("reading git metadata: %w", err)
		}
		return nil, toMetadataOutput(true, md), nil
	}
}

// --- Generate tool ---

// GenerateInput is the input for the generate tool.
type GenerateInput struct {
	Name       string   `json:"name"                  jsonschema:"simple type name without type parameters"`
	Namespace  string   `json:"namespace,omitempty"   jsonschema:"containing namespace or Go package; empty for global scope"`
	Language   string   `json:"language,omitempty"    jsonschema:"output language: go or csharp (default from server config)"`
	TypeParams []string `json:"type_params,omitempty" jsonschema:"generic type parameter names in declaration order"`
}

// DiagnosticOutput is a warning raised while generating.
type DiagnosticOutput struct {
	ID       string `json:"id"       jsonschema:"diagnostic identifier, e.g. GITINFO01"`
	Severity string `json:"severity" jsonschema:"diagnostic severity"`
	Message  string `json:"message"  jsonschema:"human-readable message"`
}

// GenerateOutput is the output for the generate tool.
type GenerateOutput struct {
	Artifact   string            `json:"artifact"             jsonschema:"file name the source would be written to"`
	Source     string            `json:"source"               jsonschema:"generated source text"`
	Diagnostic *DiagnosticOutput `json:"diagnostic,omitempty" jsonschema:"warning raised when git was unusable"`
}

func handleGenerate(repo metadata.Repository, fallback emit.Language) mcp.ToolHandlerFor[GenerateInput, GenerateOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
		if input.Name == "" {
			return nil, GenerateOutput{}, errors.New("name is required")
		}

		lang, err := resolveLanguage(input.Language, fallback)
		if err != nil {
			return nil, GenerateOutput{}, err
		}

		target := emit.Target{
			Name:       input.Name,
			Namespace:  input.Namespace,
			TypeParams: input.TypeParams,
		}
		res, err := generator.Generate(ctx, target, repo, lang)
		if err != nil {
			return nil, GenerateOutput{}, err
		}

		return nil, GenerateOutput{
			Artifact:   res.Unit.Name,
			Source:     string(res.Unit.Source),
			Diagnostic: toDiagnosticOutput(res.Diagnostic),
		}, nil
	}
}
