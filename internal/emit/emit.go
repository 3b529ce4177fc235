package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/gorewood/gitinfo/internal/metadata"
)

// Language is an output language with its file extension and renderer.
type Language struct {
	Name string
	Ext  string

	tmpl     *template.Template
	finalize func([]byte) []byte
}

var (
	// Go renders methods on the target type; the CLI default.
	Go = Language{Name: "go", Ext: "go", tmpl: goTemplate, finalize: gofmt}
	// CSharp renders static members on a partial class.
	CSharp = Language{Name: "csharp", Ext: "cs", tmpl: csharpTemplate}
)

var languageAliases = map[string]Language{
	"go":     Go,
	"golang": Go,
	"csharp": CSharp,
	"cs":     CSharp,
	"c#":     CSharp,
}

// LanguageByName resolves a language name or alias, case-insensitively.
func LanguageByName(name string) (Language, error) {
	lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Language{}, fmt.Errorf("unknown language %q (supported: %s)", name, strings.Join(LanguageNames(), ", "))
	}
	return lang, nil
}

// LanguageNames lists canonical language names.
func LanguageNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, lang := range languageAliases {
		if !seen[lang.Name] {
			seen[lang.Name] = true
			names = append(names, lang.Name)
		}
	}
	sort.Strings(names)
	return names
}

// renderData is what the templates see.
type renderData struct {
	Namespace  string
	Name       string
	TypeParams []string
	Branch     string
	Hash       string
	Tags       []string
}

// Emit renders md as members of target in lang.
func Emit(target Target, md metadata.Metadata, lang Language) (Unit, error) {
	if lang.tmpl == nil {
		return Unit{}, fmt.Errorf("language %q has no renderer", lang.Name)
	}
	if err := target.Validate(); err != nil {
		return Unit{}, err
	}

	data := renderData{
		Namespace:  target.Namespace,
		Name:       target.Name,
		TypeParams: target.TypeParams,
		Branch:     md.Branch(),
		Hash:       md.Hash(),
		Tags:       md.Tags(),
	}

	var buf bytes.Buffer
	if err := lang.tmpl.Execute(&buf, data); err != nil {
		return Unit{}, fmt.Errorf("rendering %s for %s: %w", lang.Name, target.Identifier(), err)
	}

	src := buf.Bytes()
	if lang.finalize != nil {
		src = lang.finalize(src)
	}
	return Unit{Name: ArtifactName(target, lang), Source: src}, nil
}

// gofmt formats Go output. Identifiers are not validated, so source that
// does not parse is returned as rendered.
func gofmt(src []byte) []byte {
	formatted, err := format.Source(src)
	if err != nil {
		return src
	}
	return formatted
}

var goTemplate = template.Must(template.New("go").Funcs(template.FuncMap{
	"quote":    strconv.Quote,
	"pkg":      goPackage,
	"receiver": goReceiver,
}).Parse(`// Code generated by gitinfo. DO NOT EDIT.

package {{pkg .Namespace}}

// BranchName returns the git branch checked out when {{.Name}} was generated.
func ({{receiver .}}) BranchName() string { return {{quote .Branch}} }

// Hash returns the full commit hash checked out when {{.Name}} was generated.
func ({{receiver .}}) Hash() string { return {{quote .Hash}} }

// Tags returns the git tags containing that commit.
func ({{receiver .}}) Tags() []string {
	return []string{ {{- range $i, $t := .Tags}}{{if $i}}, {{end}}{{quote $t}}{{end -}} }
}
`))

// goPackage maps a namespace to a package clause name. Go has no global
// scope, so an empty namespace becomes package main.
func goPackage(namespace string) string {
	if namespace == "" {
		return "main"
	}
	if i := strings.LastIndexAny(namespace, "/."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func goReceiver(d renderData) string {
	if len(d.TypeParams) == 0 {
		return d.Name
	}
	return d.Name + "[" + strings.Join(d.TypeParams, ", ") + "]"
}

var csharpTemplate = template.Must(template.New("csharp").Funcs(template.FuncMap{
	"quote": csharpQuote,
	"join":  strings.Join,
}).Parse(`// <auto-generated/>
#nullable enable
{{- if .Namespace}}

namespace {{.Namespace}};
{{- end}}

partial class {{.Name}}{{if .TypeParams}}<{{join .TypeParams ", "}}>{{end}}
{
    public static string BranchName => {{quote .Branch}};

    public static string Hash => {{quote .Hash}};

    public static string[] Tags => new string[] { {{- range $i, $t := .Tags}}{{if $i}},{{end}} {{quote $t}}{{end}} };
}
`))

// csharpQuote renders s as a C# regular string literal.
func csharpQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case 0:
			b.WriteString(`\0`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if r < 0x20 || r == 0x7f || r == 0x85 || r == 0x2028 || r == 0x2029 {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
