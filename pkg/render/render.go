// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/netdata/netdata/go/traceview/pkg/frame"
)

// DefaultTemplate prints a header line of field names followed by one line per row.
// Columns are separated by tabs and aligned on output.
const DefaultTemplate = `{{ range $i, $f := .Fields }}{{ if $i }}	{{ end }}{{ $f.Name }}{{ end }}
{{ range .Rows }}{{ range $i, $v := . }}{{ if $i }}	{{ end }}{{ $v }}{{ end }}
{{ end }}`

// View is the data a template is executed with.
type View struct {
	Name    string
	Fields  []*frame.Field
	Rows    [][]string
	Records []map[string]string
}

// Text renders f through the given text/template (DefaultTemplate when empty).
// Besides the sprig functions, templates can call `link <field> <value>` to get
// the first data link of a field interpolated with the value.
func Text(w io.Writer, f *frame.Frame, tmpl string) error {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	if f == nil {
		f = frame.NewFrame("")
	}

	t, err := template.New("frame").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{"link": linkFunc(f)}).
		Parse(tmpl)
	if err != nil {
		return fmt.Errorf("render: parse template: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := t.Execute(tw, newView(f)); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return tw.Flush()
}

func newView(f *frame.Frame) View {
	v := View{Name: f.Name, Fields: f.Fields}

	for i := 0; i < f.Rows(); i++ {
		row := make([]string, len(f.Fields))
		rec := make(map[string]string, len(f.Fields))
		for j, fld := range f.Fields {
			row[j] = FormatValue(fld.At(i))
			rec[fld.Name] = row[j]
		}
		v.Rows = append(v.Rows, row)
		v.Records = append(v.Records, rec)
	}
	return v
}

// FormatValue renders a single cell: nil is empty, times are RFC3339,
// decoded structures are compact JSON.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case map[string]any, []any:
		bs, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(bs)
	default:
		return fmt.Sprint(v)
	}
}

func linkFunc(f *frame.Frame) func(string, string) (string, error) {
	return func(name, raw string) (string, error) {
		fld, ok := f.FieldByName(name)
		if !ok {
			return "", fmt.Errorf("link: no field '%s'", name)
		}
		if fld.Config == nil || len(fld.Config.Links) == 0 {
			return raw, nil
		}

		l := fld.Config.Links[0].Interpolate(raw)
		if l.URL != "" {
			return l.URL, nil
		}
		if l.Internal != nil && l.Internal.DatasourceName != "" {
			return strings.TrimSpace(l.Title + " (" + l.Internal.DatasourceName + ")"), nil
		}
		return l.Title, nil
	}
}
