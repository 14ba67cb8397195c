package fluent

import (
	"strings"
)

// Parse reads a complete .ftl resource into a Resource tree. Parse never
// returns an error: text it cannot make sense of is captured as Junk
// entries so the resource still round-trips, matching how a Fluent bundle
// degrades a malformed entry without failing the whole file.
func Parse(src []byte) *Resource {
	p := &parser{src: normalizeNewlines(src)}
	res := &Resource{}
	for !p.atEOF() {
		p.skipBlankLines()
		if p.atEOF() {
			break
		}
		entry := p.parseEntry()
		if entry != nil {
			res.Body = append(res.Body, entry)
		}
	}
	return res
}

func normalizeNewlines(src []byte) string {
	s := string(src)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

type parser struct {
	src string
	pos int
}

func (p *parser) atEOF() bool { return p.pos >= len(p.src) }

func (p *parser) rest() string { return p.src[p.pos:] }

// atLineStart reports whether pos sits at the start of a line (start of
// file, or just after a newline).
func (p *parser) atLineStart() bool {
	return p.pos == 0 || p.src[p.pos-1] == '\n'
}

func (p *parser) skipBlankLines() {
	for !p.atEOF() {
		line, _ := p.peekLine()
		if strings.TrimSpace(line) != "" {
			return
		}
		p.advanceLine()
	}
}

// peekLine returns the text of the current line (without its trailing
// newline) and its length including the newline, without consuming it.
func (p *parser) peekLine() (string, int) {
	rest := p.rest()
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return rest[:idx], idx + 1
	}
	return rest, len(rest)
}

func (p *parser) advanceLine() {
	_, n := p.peekLine()
	p.pos += n
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func (p *parser) parseEntry() Entry {
	line, _ := p.peekLine()
	trimmed := strings.TrimLeft(line, " \t")

	switch {
	case strings.HasPrefix(trimmed, "####"):
		return p.parseJunkLine()
	case strings.HasPrefix(trimmed, "###"):
		return &ResourceComment{Content: p.parseCommentBlock("###")}
	case strings.HasPrefix(trimmed, "##"):
		return &GroupComment{Content: p.parseCommentBlock("##")}
	case strings.HasPrefix(trimmed, "#"):
		return &Comment{Content: p.parseCommentBlock("#")}
	case strings.HasPrefix(trimmed, "-") && isIdentStart(runeAt(trimmed, 1)):
		if e, ok := p.tryParseTerm(); ok {
			return e
		}
		return p.parseJunkLine()
	case isIdentStart(runeAt(trimmed, 0)):
		if e, ok := p.tryParseMessage(); ok {
			return e
		}
		return p.parseJunkLine()
	default:
		return p.parseJunkLine()
	}
}

func runeAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

// parseCommentBlock consumes consecutive lines that share the exact same
// comment marker ("#", "##" or "###"), stopping at the first line that
// doesn't, matching Fluent's rule that comment blocks never merge across
// marker levels.
func (p *parser) parseCommentBlock(marker string) []string {
	var content []string
	for !p.atEOF() {
		line, _ := p.peekLine()
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, marker) {
			break
		}
		rest := trimmed[len(marker):]
		// A further '#' after the marker means this line belongs to a
		// different comment level (or, with four or more, is Junk), so
		// the block ends here.
		if rest != "" && rest[0] == '#' {
			break
		}
		content = append(content, strings.TrimPrefix(rest, " "))
		p.advanceLine()
	}
	return content
}

func (p *parser) parseJunkLine() Entry {
	start := p.pos
	for !p.atEOF() {
		line, _ := p.peekLine()
		if strings.TrimSpace(line) == "" {
			break
		}
		p.advanceLine()
	}
	return &Junk{Content: p.src[start:p.pos]}
}

func (p *parser) tryParseMessage() (Entry, bool) {
	save := p.pos
	line, lineLen := p.peekLine()
	id, rest, ok := parseIdentifier(line)
	if !ok {
		p.pos = save
		return nil, false
	}
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, "=") {
		p.pos = save
		return nil, false
	}
	valueText := strings.TrimPrefix(rest, "=")
	valueText = strings.TrimLeft(valueText, " ")
	p.pos += lineLen

	value, attrs := p.parsePatternAndAttributes(valueText, 0)
	msg := &Message{ID: Identifier{Name: id}, Attributes: attrs}
	if value != nil {
		msg.Value = value
	}
	return msg, true
}

func (p *parser) tryParseTerm() (Entry, bool) {
	save := p.pos
	line, lineLen := p.peekLine()
	trimmed := strings.TrimPrefix(line, "-")
	id, rest, ok := parseIdentifier(trimmed)
	if !ok {
		p.pos = save
		return nil, false
	}
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, "=") {
		p.pos = save
		return nil, false
	}
	valueText := strings.TrimPrefix(rest, "=")
	valueText = strings.TrimLeft(valueText, " ")
	p.pos += lineLen

	value, attrs := p.parsePatternAndAttributes(valueText, 0)
	term := &Term{ID: Identifier{Name: id}, Attributes: attrs}
	if value != nil {
		term.Value = *value
	} else {
		term.Value = Pattern{}
	}
	return term, true
}

func parseIdentifier(s string) (id string, rest string, ok bool) {
	if s == "" || !isIdentStart(s[0]) {
		return "", s, false
	}
	i := 1
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return s[:i], s[i:], true
}

// parsePatternAndAttributes parses the inline first line of a pattern
// (already extracted by the caller) plus any further indented continuation
// and attribute lines, returning the pattern (nil if entirely empty) and
// any attributes found.
func (p *parser) parsePatternAndAttributes(firstLine string, baseIndent int) (*Pattern, []Attribute) {
	var elements []PatternElement
	if strings.TrimSpace(firstLine) != "" {
		elements = append(elements, p.parsePatternLine(firstLine)...)
	}

	var attrs []Attribute
	for !p.atEOF() {
		line, _ := p.peekLine()
		if strings.TrimSpace(line) == "" {
			break
		}
		indent := indentOf(line)
		if indent <= baseIndent {
			break
		}
		trimmed := line[indent:]
		if strings.HasPrefix(trimmed, ".") {
			attr, ok := p.tryParseAttribute(indent)
			if !ok {
				break
			}
			attrs = append(attrs, attr)
			continue
		}
		// Continuation of the pattern: keep the line's exact text,
		// indentation included, so the serializer reproduces it.
		// advanceLine happens before re-scanning the line so that a
		// placeable spanning further lines (a select expression) can
		// consume its variants and closing brace from the cursor.
		p.advanceLine()
		parsed := p.parsePatternLine(line)
		if first, ok := parsed[0].(TextElement); ok {
			parsed[0] = TextElement{Value: "\n" + first.Value}
		}
		elements = append(elements, parsed...)
	}

	if len(elements) == 0 {
		return nil, attrs
	}
	return &Pattern{Elements: coalesceText(elements)}, attrs
}

func (p *parser) tryParseAttribute(indent int) (Attribute, bool) {
	line, lineLen := p.peekLine()
	trimmed := line[indent:]
	rest := strings.TrimPrefix(trimmed, ".")
	id, rest2, ok := parseIdentifier(rest)
	if !ok {
		return Attribute{}, false
	}
	rest2 = strings.TrimLeft(rest2, " \t")
	if !strings.HasPrefix(rest2, "=") {
		return Attribute{}, false
	}
	valueText := strings.TrimLeft(strings.TrimPrefix(rest2, "="), " ")
	p.pos += lineLen

	value, _ := p.parsePatternAndAttributes(valueText, indent)
	if value == nil {
		value = &Pattern{}
	}
	return Attribute{ID: Identifier{Name: id}, Value: *value}, true
}

// parsePatternLine scans one line of pattern text, splitting off a leading
// TextElement (always present, possibly empty — callers that parse a
// continuation line prefix it with the line break) and any Placeables
// found in it.
func (p *parser) parsePatternLine(line string) []PatternElement {
	var elements []PatternElement
	var textBuf strings.Builder
	i := 0
	for i < len(line) {
		if line[i] == '{' {
			elements = append(elements, TextElement{Value: textBuf.String()})
			textBuf.Reset()
			expr, consumed := p.parsePlaceableFrom(line[i:])
			elements = append(elements, Placeable{Expression: expr})
			i += consumed
			continue
		}
		textBuf.WriteByte(line[i])
		i++
	}
	elements = append(elements, TextElement{Value: textBuf.String()})
	return elements
}

// parsePlaceableFrom parses a "{ ... }" starting at the beginning of s,
// consuming subsequent lines from the parser's cursor if the placeable is
// a select expression whose variants live on following indented lines. It
// returns the parsed expression and the number of bytes of s consumed.
func (p *parser) parsePlaceableFrom(s string) (Expression, int) {
	depth := 0
	end := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		// No closing brace on this line. The only legal shape this can be
		// is the header of a multi-line select expression, whose variants
		// and closing "}" live on the lines that follow; anything else is
		// treated as an unterminated placeable and the rest of the line is
		// taken as its content.
		header := strings.TrimRight(s, " \t")
		if strings.HasSuffix(header, "->") {
			selectorText := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(header, "{"), "->"))
			selector := parseInlineExpression(selectorText)
			variants := p.parseVariants()
			p.consumeClosingBrace()
			return SelectExpression{Selector: selector, Variants: variants}, len(s)
		}
		end = len(s) - 1
		inner := strings.TrimSpace(s[1:end])
		return parseInlineExpression(inner), end + 1
	}
	inner := strings.TrimSpace(s[1:end])

	if strings.HasSuffix(inner, "->") {
		selectorText := strings.TrimSpace(strings.TrimSuffix(inner, "->"))
		selector := parseInlineExpression(selectorText)
		variants := p.parseVariants()
		return SelectExpression{Selector: selector, Variants: variants}, end + 1
	}

	return parseInlineExpression(inner), end + 1
}

// consumeClosingBrace advances past a lone "}" line (optionally indented)
// terminating a multi-line select expression, if the next non-blank line is
// exactly that.
func (p *parser) consumeClosingBrace() {
	for !p.atEOF() {
		line, _ := p.peekLine()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			p.advanceLine()
			continue
		}
		if trimmed == "}" {
			p.advanceLine()
		}
		return
	}
}

// parseVariants consumes the indented "[key] pattern" / "*[key] pattern"
// lines that follow a select expression's "->" line.
func (p *parser) parseVariants() []Variant {
	var variants []Variant
	for !p.atEOF() {
		line, _ := p.peekLine()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !(strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "*[")) {
			break
		}
		indent := indentOf(line)
		isDefault := strings.HasPrefix(trimmed, "*")
		rest := strings.TrimPrefix(trimmed, "*")
		if !strings.HasPrefix(rest, "[") {
			break
		}
		closeIdx := strings.IndexByte(rest, ']')
		if closeIdx < 0 {
			break
		}
		keyText := strings.TrimSpace(rest[1:closeIdx])
		valueText := strings.TrimSpace(rest[closeIdx+1:])
		p.advanceLine()

		value, _ := p.parsePatternAndAttributes(valueText, indent)
		if value == nil {
			value = &Pattern{}
		}
		variants = append(variants, Variant{
			Key:     parseVariantKey(keyText),
			Value:   *value,
			Default: isDefault,
		})
	}
	return variants
}

func parseVariantKey(s string) VariantKey {
	if s == "" {
		return VariantIdentifierKey{Name: s}
	}
	if s[0] == '-' || (s[0] >= '0' && s[0] <= '9') {
		if isNumeric(s) {
			return VariantNumberKey{Value: s}
		}
	}
	return VariantIdentifierKey{Name: s}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i++
	}
	if i == len(s) {
		return false
	}
	seenDigit := false
	for ; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			seenDigit = true
			continue
		}
		if s[i] == '.' {
			continue
		}
		return false
	}
	return seenDigit
}

// parseInlineExpression parses the trimmed interior of a "{ ... }"
// placeable (minus any "->" selector suffix, which the caller strips).
func parseInlineExpression(s string) InlineExpression {
	s = strings.TrimSpace(s)
	if s == "" {
		return StringLiteral{Value: ""}
	}
	switch s[0] {
	case '"':
		if strings.HasSuffix(s, `"`) && len(s) >= 2 {
			return StringLiteral{Value: s[1 : len(s)-1]}
		}
		return StringLiteral{Value: strings.TrimPrefix(s, `"`)}
	case '$':
		return VariableReference{ID: Identifier{Name: strings.TrimSpace(s[1:])}}
	case '-':
		return parseTermReference(s[1:])
	}
	if s[0] >= '0' && s[0] <= '9' {
		return NumberLiteral{Value: s}
	}
	return parseMessageOrFunctionReference(s)
}

func parseTermReference(s string) TermReference {
	name, rest := splitIdentAndRest(s)
	ref := TermReference{ID: Identifier{Name: name}}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, ".") {
		attr, rest2 := splitIdentAndRest(rest[1:])
		a := Identifier{Name: attr}
		ref.Attribute = &a
		rest = strings.TrimSpace(rest2)
	}
	if strings.HasPrefix(rest, "(") {
		args := parseCallArguments(rest)
		ref.Arguments = &args
	}
	return ref
}

func parseMessageOrFunctionReference(s string) InlineExpression {
	name, rest := splitIdentAndRest(s)
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "(") {
		return FunctionReference{ID: Identifier{Name: name}, Arguments: parseCallArguments(rest)}
	}
	ref := MessageReference{ID: Identifier{Name: name}}
	if strings.HasPrefix(rest, ".") {
		attr, _ := splitIdentAndRest(rest[1:])
		a := Identifier{Name: attr}
		ref.Attribute = &a
	}
	return ref
}

func splitIdentAndRest(s string) (string, string) {
	i := 0
	for i < len(s) && (isIdentChar(s[i]) || (i == 0 && isIdentStart(s[i]))) {
		i++
	}
	return s[:i], s[i:]
}

func parseCallArguments(s string) CallArguments {
	if !strings.HasPrefix(s, "(") {
		return CallArguments{}
	}
	closeIdx := strings.LastIndexByte(s, ')')
	if closeIdx < 0 {
		return CallArguments{}
	}
	inner := s[1:closeIdx]
	var args CallArguments
	for _, part := range splitArgs(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := findNamedArgColon(part); idx >= 0 {
			name := strings.TrimSpace(part[:idx])
			valueExpr := parseInlineExpression(part[idx+1:])
			args.Named = append(args.Named, NamedArgument{Name: Identifier{Name: name}, Value: valueExpr})
			continue
		}
		args.Positional = append(args.Positional, parseInlineExpression(part))
	}
	return args
}

// findNamedArgColon finds a top-level ":" that separates a named argument
// from its value, ignoring colons inside quoted strings.
func findNamedArgColon(s string) int {
	inString := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inString = !inString
		case ':':
			if !inString {
				return i
			}
		}
	}
	return -1
}

func splitArgs(s string) []string {
	var parts []string
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inString = !inString
		case '(':
			if !inString {
				depth++
			}
		case ')':
			if !inString {
				depth--
			}
		case ',':
			if !inString && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// coalesceText merges adjacent TextElements produced while stitching
// together a multi-line pattern, so Equal and the serializer both see a
// normalized, minimal element list.
func coalesceText(elements []PatternElement) []PatternElement {
	var out []PatternElement
	for _, el := range elements {
		if te, ok := el.(TextElement); ok {
			if len(out) > 0 {
				if prev, ok := out[len(out)-1].(TextElement); ok {
					out[len(out)-1] = TextElement{Value: prev.Value + te.Value}
					continue
				}
			}
			if te.Value == "" {
				continue
			}
		}
		out = append(out, el)
	}
	return out
}
