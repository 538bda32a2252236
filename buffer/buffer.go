package buffer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"indentpaste/engine"
	"indentpaste/logger"
	"indentpaste/text"
	"indentpaste/types"

	"github.com/neovim/go-client/nvim"
	"github.com/tidwall/gjson"
)

// PasteMethod is the RPC request name the Lua mapping calls
const PasteMethod = "indentpaste_paste"

// FormatTimeoutMs bounds each synchronous rangeFormatting request
const FormatTimeoutMs = 2000

var errNoClient = errors.New("nvim client not set")

var (
	_ engine.Buffer    = (*NvimBuffer)(nil)
	_ engine.Formatter = (*NvimBuffer)(nil)
)

type Config struct {
	Register string // register put by the native paste fallback
}

// NvimBuffer is a snapshot of the current Neovim buffer plus the operations
// a paste needs. Sync refreshes the snapshot.
type NvimBuffer struct {
	client *nvim.Nvim
	config Config

	id         nvim.Buffer
	lines      []string
	eol        text.EOL
	opts       types.EditorOptions
	selections []types.Selection
	host       map[string]any
}

func New(config Config) *NvimBuffer {
	if config.Register == "" {
		config.Register = "+"
	}
	return &NvimBuffer{
		config: config,
		id:     nvim.Buffer(0),
		lines:  []string{},
		eol:    text.LF,
		opts:   types.EditorOptions{TabWidth: text.DefaultTabWidth, InsertSpaces: true},
		host:   map[string]any{},
	}
}

// SetClient stores the nvim client for all buffer operations
func (b *NvimBuffer) SetClient(n *nvim.Nvim) {
	b.client = n
}

func (b *NvimBuffer) Selections() []types.Selection { return b.selections }

func (b *NvimBuffer) EOL() text.EOL { return b.eol }

func (b *NvimBuffer) Options() types.EditorOptions { return b.opts }

func (b *NvimBuffer) HostSettings() map[string]any { return b.host }

func (b *NvimBuffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// TextIn returns the snapshot text covered by r, lines joined with the
// buffer's EOL. Columns past the end of a line are clamped.
func (b *NvimBuffer) TextIn(r types.Range) string {
	if !r.Start.Before(r.End) {
		return ""
	}
	var sb strings.Builder
	for line := r.Start.Line; line <= r.End.Line && line < len(b.lines); line++ {
		l := b.lines[line]
		from, to := 0, len(l)
		if line == r.Start.Line {
			from = min(max(r.Start.Character, 0), len(l))
		}
		if line == r.End.Line {
			to = min(max(r.End.Character, 0), len(l))
		}
		if from < to {
			sb.WriteString(l[from:to])
		}
		if line < r.End.Line {
			sb.WriteString(b.eol.Separator())
		}
	}
	return sb.String()
}

// syncStateLua collects buffer options and plugin settings. Buffer-local
// settings win over global ones.
const syncStateLua = `
local function setting(name)
	local v = vim.b['indentpaste_' .. name]
	if v == nil then v = vim.g['indentpaste_' .. name] end
	return v
end
return {
	fileformat = vim.bo.fileformat,
	tabstop = vim.bo.tabstop,
	expandtab = vim.bo.expandtab,
	multi_cursor_paste = setting('multi_cursor_paste'),
	format_on_paste = setting('format_on_paste'),
}
`

// Sync reads the current buffer, window cursor, options and settings in one
// round-trip. sels replaces the window cursor when non-empty.
func (b *NvimBuffer) Sync(ctx context.Context, sels []types.Selection) error {
	defer logger.Trace("buffer.Sync")()
	if b.client == nil {
		return errNoClient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := b.client.NewBatch()

	var currentBuf nvim.Buffer
	var lines [][]byte
	var cursor [2]int
	var state map[string]any

	batch.CurrentBuffer(&currentBuf)
	batch.BufferLines(nvim.Buffer(0), 0, -1, false, &lines)
	batch.WindowCursor(nvim.Window(0), &cursor)
	batch.ExecLua(syncStateLua, &state, nil)

	if err := batch.Execute(); err != nil {
		logger.Error("error executing sync batch: %v", err)
		return err
	}

	b.id = currentBuf
	b.lines = make([]string, len(lines))
	for i, line := range lines {
		b.lines[i] = string(line)
	}
	b.applyState(state)

	if len(sels) > 0 {
		b.selections = append([]types.Selection(nil), sels...)
	} else {
		// nvim cursor: 1-based row, 0-based byte column, taken as the
		// insert-mode position
		b.selections = []types.Selection{types.CursorAt(types.Position{Line: cursor[0] - 1, Character: cursor[1]})}
	}
	return nil
}

// applyState turns the result of syncStateLua into options and host settings
func (b *NvimBuffer) applyState(state map[string]any) {
	b.eol = text.EOLFromFileFormat(getString(state, "fileformat"))

	tabWidth := getNumber(state, "tabstop")
	if tabWidth <= 0 {
		tabWidth = text.DefaultTabWidth
	}
	insertSpaces, ok := state["expandtab"].(bool)
	if !ok {
		insertSpaces = true
	}
	b.opts = types.EditorOptions{TabWidth: tabWidth, InsertSpaces: insertSpaces}

	b.host = make(map[string]any, 2)
	for _, key := range []string{engine.HostKeyMultiCursorPaste, engine.HostKeyFormatOnPaste} {
		if v, ok := state[key]; ok && v != nil {
			b.host[key] = v
		}
	}
}

// editArg is one nvim_buf_set_text call
type editArg struct {
	StartLine int      `msgpack:"start_line"`
	StartCol  int      `msgpack:"start_col"`
	EndLine   int      `msgpack:"end_line"`
	EndCol    int      `msgpack:"end_col"`
	Lines     []string `msgpack:"lines"`
}

// editArgs converts edits to set_text arguments ordered bottom-up, so that
// applying them in order keeps every later range valid. Edits starting at
// one position go last-first, which leaves their texts in input order.
func editArgs(edits []types.TextEdit) []editArg {
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		if c := edits[order[i]].Range.Start.Compare(edits[order[j]].Range.Start); c != 0 {
			return c > 0
		}
		return order[i] > order[j]
	})

	args := make([]editArg, len(order))
	for i, idx := range order {
		e := edits[idx]
		args[i] = editArg{
			StartLine: e.Range.Start.Line,
			StartCol:  e.Range.Start.Character,
			EndLine:   e.Range.End.Line,
			EndCol:    e.Range.End.Character,
			Lines:     text.SplitLines(e.NewText),
		}
	}
	return args
}

// narrowEdits splits every whole-line replacement into one edit per changed
// hunk, so marks and extmarks on lines the replacement leaves equal stay put.
// Other edits pass through unchanged.
func narrowEdits(lines []string, edits []types.TextEdit) []types.TextEdit {
	out := make([]types.TextEdit, 0, len(edits))
	for _, e := range edits {
		r := e.Range
		newLines := text.SplitLines(e.NewText)
		wholeLines := r.Start.Character == 0 && r.End.Character == 0 &&
			r.Start.Line >= 0 && r.Start.Line < r.End.Line && r.End.Line < len(lines) &&
			newLines[len(newLines)-1] == ""
		if !wholeLines {
			out = append(out, e)
			continue
		}

		for _, h := range text.LineHunks(lines[r.Start.Line:r.End.Line], newLines[:len(newLines)-1]) {
			var sb strings.Builder
			for _, l := range h.Lines {
				sb.WriteString(l)
				sb.WriteString("\n")
			}
			out = append(out, types.TextEdit{
				Range: types.Range{
					Start: types.Position{Line: r.Start.Line + h.OldStart},
					End:   types.Position{Line: r.Start.Line + h.OldEnd},
				},
				NewText: sb.String(),
			})
		}
	}
	return out
}

// applyEditArgs replays set_text arguments on a line snapshot the way
// nvim_buf_set_text applies them. lines is left untouched.
func applyEditArgs(lines []string, args []editArg) ([]string, error) {
	out := lines
	for _, a := range args {
		if a.StartLine < 0 || a.StartLine > a.EndLine || a.EndLine >= len(out) || len(a.Lines) == 0 ||
			a.StartCol < 0 || a.StartCol > len(out[a.StartLine]) ||
			a.EndCol < 0 || a.EndCol > len(out[a.EndLine]) ||
			(a.StartLine == a.EndLine && a.StartCol > a.EndCol) {
			return lines, fmt.Errorf("edit %d:%d-%d:%d outside snapshot", a.StartLine, a.StartCol, a.EndLine, a.EndCol)
		}

		repl := make([]string, len(a.Lines))
		copy(repl, a.Lines)
		repl[0] = out[a.StartLine][:a.StartCol] + repl[0]
		repl[len(repl)-1] += out[a.EndLine][a.EndCol:]

		next := make([]string, 0, len(out)-(a.EndLine-a.StartLine+1)+len(repl))
		next = append(next, out[:a.StartLine]...)
		next = append(next, repl...)
		next = append(next, out[a.EndLine+1:]...)
		out = next
	}
	return out, nil
}

// applyEditsLua runs every edit inside one RPC call, which Neovim records as
// a single undo step. On a failure part way, the edits already made are
// reverted newest first from their captured text; :undo would also take back
// whatever else shares the undo block.
const applyEditsLua = `
local bufnr, edits = ...
local applied = {}
local ok, err = pcall(function()
	for _, e in ipairs(edits) do
		local old = vim.api.nvim_buf_get_text(bufnr, e.start_line, e.start_col, e.end_line, e.end_col, {})
		vim.api.nvim_buf_set_text(bufnr, e.start_line, e.start_col, e.end_line, e.end_col, e.lines)
		local n = #e.lines
		local end_col = #e.lines[n]
		if n == 1 then end_col = end_col + e.start_col end
		table.insert(applied, { e.start_line, e.start_col, e.start_line + n - 1, end_col, old })
	end
end)
if not ok then
	for i = #applied, 1, -1 do
		local a = applied[i]
		pcall(vim.api.nvim_buf_set_text, bufnr, a[1], a[2], a[3], a[4], a[5])
	end
	error(err)
end
`

// ApplyEdits applies all edits as one transaction and replays them on the
// snapshot, so a later call in the same request sees the edited lines.
func (b *NvimBuffer) ApplyEdits(ctx context.Context, edits []types.TextEdit) error {
	if b.client == nil {
		return errNoClient
	}
	if len(edits) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	args := editArgs(narrowEdits(b.lines, edits))
	if len(args) == 0 {
		logger.Debug("all %d edit(s) leave the buffer unchanged", len(edits))
		return nil
	}

	batch := b.client.NewBatch()
	batch.ExecLua(applyEditsLua, nil, int(b.id), args)
	if err := batch.Execute(); err != nil {
		return fmt.Errorf("apply %d edit(s): %w", len(edits), err)
	}

	lines, err := applyEditArgs(b.lines, args)
	if err != nil {
		// an empty snapshot disables narrowing until the next Sync
		logger.Debug("snapshot out of sync after apply: %v", err)
		lines = nil
	}
	b.lines = lines
	return nil
}

// setCursorsLua hands every position to a multi-cursor plugin hook when the
// user defined one. Returns whether the hook ran.
const setCursorsLua = `
local positions = ...
local hook = vim.g.indentpaste_set_cursors
if type(hook) == 'function' then
	hook(positions)
	return true
end
return false
`

type positionArg struct {
	Line int `msgpack:"line"`
	Col  int `msgpack:"col"`
}

// SetCursors replaces the cursor set. Without a hook only the window cursor
// exists, and Reveal places it.
func (b *NvimBuffer) SetCursors(ctx context.Context, positions []types.Position) error {
	if b.client == nil {
		return errNoClient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	args := make([]positionArg, len(positions))
	for i, p := range positions {
		args[i] = positionArg{Line: p.Line, Col: p.Character}
	}

	var hooked bool
	batch := b.client.NewBatch()
	batch.ExecLua(setCursorsLua, &hooked, args)
	if err := batch.Execute(); err != nil {
		return err
	}
	if !hooked && len(positions) > 1 {
		logger.Debug("no indentpaste_set_cursors hook, keeping only the last of %d cursors", len(positions))
	}
	return nil
}

// Reveal moves the window cursor to pos and scrolls it into view
func (b *NvimBuffer) Reveal(ctx context.Context, pos types.Position) error {
	if b.client == nil {
		return errNoClient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := b.client.NewBatch()
	applyCursorMove(batch, pos.Line+1, pos.Character)
	return batch.Execute()
}

func applyCursorMove(batch *nvim.Batch, line, col int) {
	batch.SetWindowCursor(0, [2]int{line, col})
	// open folds around the cursor so it is actually visible
	batch.ExecLua("vim.cmd('normal! zv')", nil, nil)
}

const nativePasteLua = `
local register = ...
local hook = vim.g.indentpaste_native_paste
if type(hook) == 'function' then
	hook()
	return
end
local lines = vim.fn.getreg(register, 1, true)
if #lines == 0 then return end
vim.api.nvim_put(lines, vim.fn.getregtype(register), false, true)
`

// NativePaste hands the paste back to Neovim: the user's hook when set,
// otherwise a plain put of the configured register.
func (b *NvimBuffer) NativePaste(ctx context.Context) error {
	if b.client == nil {
		return errNoClient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := b.client.NewBatch()
	batch.ExecLua(nativePasteLua, nil, b.config.Register)
	return batch.Execute()
}

// rangeFormatLua asks attached LSP clients for range formatting edits and
// returns them JSON encoded with byte columns. The first client that
// answers with edits wins.
const rangeFormatLua = `
local bufnr, sl, sc, el, ec, tab_size, insert_spaces, timeout = ...
if bufnr == 0 then bufnr = vim.api.nvim_get_current_buf() end
local function line_text(l)
	return vim.api.nvim_buf_get_lines(bufnr, l, l + 1, false)[1] or ''
end
local function to_client(l, col, enc)
	if enc == 'utf-8' then return col end
	local s = line_text(l)
	return vim.str_utfindex(s, enc, math.min(col, #s), false)
end
local function to_byte(l, col, enc)
	if enc == 'utf-8' then return col end
	return vim.str_byteindex(line_text(l), enc, col, false)
end
local out = {}
for _, client in ipairs(vim.lsp.get_clients({ bufnr = bufnr, method = 'textDocument/rangeFormatting' })) do
	local enc = client.offset_encoding or 'utf-16'
	local params = {
		textDocument = { uri = vim.uri_from_bufnr(bufnr) },
		range = {
			start = { line = sl, character = to_client(sl, sc, enc) },
			['end'] = { line = el, character = to_client(el, ec, enc) },
		},
		options = { tabSize = tab_size, insertSpaces = insert_spaces },
	}
	local resp = client:request_sync('textDocument/rangeFormatting', params, timeout, bufnr)
	if resp and resp.result and #resp.result > 0 then
		for _, e in ipairs(resp.result) do
			local s, f = e.range.start, e.range['end']
			table.insert(out, {
				range = {
					start = { line = s.line, character = to_byte(s.line, s.character, enc) },
					['end'] = { line = f.line, character = to_byte(f.line, f.character, enc) },
				},
				newText = e.newText,
			})
		end
		break
	end
end
return vim.json.encode(out)
`

// FormatRange requests rangeFormatting edits for r from the LSP clients
// attached to the buffer.
func (b *NvimBuffer) FormatRange(ctx context.Context, r types.Range, opts types.FormattingOptions) ([]types.TextEdit, error) {
	if b.client == nil {
		return nil, errNoClient
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var editsJSON string
	batch := b.client.NewBatch()
	batch.ExecLua(rangeFormatLua, &editsJSON,
		int(b.id), r.Start.Line, r.Start.Character, r.End.Line, r.End.Character,
		opts.TabSize, opts.InsertSpaces, FormatTimeoutMs)
	if err := batch.Execute(); err != nil {
		return nil, fmt.Errorf("range formatting: %w", err)
	}
	return parseFormatEdits(editsJSON)
}

// parseFormatEdits decodes LSP-shaped TextEdits. Anything that is not an
// array (vim.json encodes an empty table as {}) means no edits.
func parseFormatEdits(editsJSON string) ([]types.TextEdit, error) {
	if !gjson.Valid(editsJSON) {
		return nil, fmt.Errorf("invalid formatter response: %q", editsJSON)
	}
	result := gjson.Parse(editsJSON)
	if !result.IsArray() {
		return nil, nil
	}

	var edits []types.TextEdit
	for _, e := range result.Array() {
		edits = append(edits, types.TextEdit{
			Range: types.Range{
				Start: types.Position{
					Line:      int(e.Get("range.start.line").Int()),
					Character: int(e.Get("range.start.character").Int()),
				},
				End: types.Position{
					Line:      int(e.Get("range.end.line").Int()),
					Character: int(e.Get("range.end.character").Int()),
				},
			},
			NewText: e.Get("newText").String(),
		})
	}
	return edits, nil
}

// SelectionArg is one selection in the paste request payload. Lines and
// columns are 0-based, columns in bytes, like nvim_buf_set_text.
type SelectionArg struct {
	StartLine int `msgpack:"start_line"`
	StartCol  int `msgpack:"start_col"`
	EndLine   int `msgpack:"end_line"`
	EndCol    int `msgpack:"end_col"`
}

func (a SelectionArg) Selection() types.Selection {
	return types.NewSelection(
		types.Position{Line: a.StartLine, Character: a.StartCol},
		types.Position{Line: a.EndLine, Character: a.EndCol},
	)
}

// RegisterPasteHandler registers the paste RPC request. The Lua side calls
// vim.rpcrequest(chan, "indentpaste_paste", selections), where selections
// may be an empty list to paste at the window cursor. The window cursor is
// read as an insert position: from normal mode it sits on a character rather
// than after it, so a normal-mode mapping should send its selection with the
// column moved one byte right (p semantics) instead of an empty list.
func (b *NvimBuffer) RegisterPasteHandler(handler func(sels []types.Selection) (string, error)) error {
	if b.client == nil {
		return errNoClient
	}
	return b.client.RegisterHandler(PasteMethod, func(_ *nvim.Nvim, args []SelectionArg) (string, error) {
		sels := make([]types.Selection, len(args))
		for i, a := range args {
			sels[i] = a.Selection()
		}
		return handler(sels)
	})
}

// Helper function to safely get string from map
func getString(m map[string]any, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// Helper function to safely get number from map, handling the integer
// types msgpack may decode to
func getNumber(m map[string]any, key string) int {
	switch val := m[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint64:
		return int(val)
	case int32:
		return int(val)
	case float64:
		return int(val)
	}
	return -1
}
