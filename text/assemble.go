package text

import "strings"

// Assemble rebuilds the clipboard text for a cursor whose own indentation is
// acols columns. The first row is emitted as-is since the cursor already
// carries the indentation; every other row gets acols plus its delta.
func (p *Prebaked) Assemble(acols int, preferTabs bool, tabWidth int, eol EOL) string {
	out := make([]string, len(p.Rows))
	for i, row := range p.Rows {
		if i == 0 {
			out[i] = row.Rest
			continue
		}
		out[i] = MakeIndent(acols+row.Delta, preferTabs, tabWidth) + row.Rest
	}
	return strings.Join(out, eol.Separator())
}
