package fluent

import "strings"

// Serialize renders a Resource back to Fluent text. Every PatternElement is
// written verbatim: TextElement contributes its raw string (including any
// embedded newline/indentation captured by the parser from a multi-line
// source pattern) and Placeable contributes "{ expr }" with no added
// whitespace of its own. Callers that build a Pattern programmatically
// (the call-site recognizer, notably) are responsible for inserting any
// TextElement line breaks they want to see in the output; the serializer
// does not invent formatting.
func Serialize(res *Resource) []byte {
	var b strings.Builder
	for i, entry := range res.Body {
		if i > 0 {
			b.WriteByte('\n')
		}
		serializeEntry(&b, entry)
	}
	return []byte(b.String())
}

// SerializeEntry renders a single entry the same way Serialize would,
// without the blank-line separators a full resource carries between
// entries. It backs the commentator, which needs the standalone text of
// one entry to wrap as a comment.
func SerializeEntry(entry Entry) []byte {
	var b strings.Builder
	serializeEntry(&b, entry)
	return []byte(b.String())
}

func serializeEntry(b *strings.Builder, entry Entry) {
	switch e := entry.(type) {
	case *Message:
		b.WriteString(e.ID.Name)
		b.WriteString(" =")
		if e.Value != nil {
			b.WriteByte(' ')
			serializePattern(b, e.Value)
		}
		serializeAttributes(b, e.Attributes)
		b.WriteByte('\n')
	case *Term:
		b.WriteByte('-')
		b.WriteString(e.ID.Name)
		b.WriteString(" = ")
		serializePattern(b, &e.Value)
		serializeAttributes(b, e.Attributes)
		b.WriteByte('\n')
	case *Comment:
		serializeCommentLines(b, "#", e.Content)
	case *GroupComment:
		serializeCommentLines(b, "##", e.Content)
	case *ResourceComment:
		serializeCommentLines(b, "###", e.Content)
	case *Junk:
		b.WriteString(e.Content)
		if !strings.HasSuffix(e.Content, "\n") {
			b.WriteByte('\n')
		}
	}
}

func serializeCommentLines(b *strings.Builder, marker string, lines []string) {
	if len(lines) == 0 {
		b.WriteString(marker)
		b.WriteByte('\n')
		return
	}
	for _, line := range lines {
		b.WriteString(marker)
		if line != "" {
			b.WriteByte(' ')
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
}

func serializeAttributes(b *strings.Builder, attrs []Attribute) {
	for _, attr := range attrs {
		b.WriteString("\n    .")
		b.WriteString(attr.ID.Name)
		b.WriteString(" = ")
		serializePattern(b, &attr.Value)
	}
}

func serializePattern(b *strings.Builder, p *Pattern) {
	for _, el := range p.Elements {
		switch v := el.(type) {
		case TextElement:
			b.WriteString(v.Value)
		case Placeable:
			b.WriteString("{ ")
			serializeExpression(b, v.Expression)
			b.WriteString(" }")
		}
	}
}

func serializeExpression(b *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case StringLiteral:
		b.WriteByte('"')
		b.WriteString(e.Value)
		b.WriteByte('"')
	case NumberLiteral:
		b.WriteString(e.Value)
	case VariableReference:
		b.WriteByte('$')
		b.WriteString(e.ID.Name)
	case MessageReference:
		b.WriteString(e.ID.Name)
		if e.Attribute != nil {
			b.WriteByte('.')
			b.WriteString(e.Attribute.Name)
		}
	case TermReference:
		b.WriteByte('-')
		b.WriteString(e.ID.Name)
		if e.Attribute != nil {
			b.WriteByte('.')
			b.WriteString(e.Attribute.Name)
		}
		if e.Arguments != nil {
			serializeCallArguments(b, *e.Arguments)
		}
	case FunctionReference:
		b.WriteString(e.ID.Name)
		serializeCallArguments(b, e.Arguments)
	case SelectExpression:
		serializeExpression(b, e.Selector)
		b.WriteString(" ->\n")
		for _, v := range e.Variants {
			if v.Default {
				b.WriteString("    *[")
			} else {
				b.WriteString("    [")
			}
			b.WriteString(variantKeyText(v.Key))
			b.WriteString("] ")
			serializePattern(b, &v.Value)
			b.WriteByte('\n')
		}
	}
}

func variantKeyText(k VariantKey) string {
	switch v := k.(type) {
	case VariantIdentifierKey:
		return v.Name
	case VariantNumberKey:
		return v.Value
	default:
		return ""
	}
}

func serializeCallArguments(b *strings.Builder, args CallArguments) {
	b.WriteByte('(')
	first := true
	for _, p := range args.Positional {
		if !first {
			b.WriteString(", ")
		}
		serializeExpression(b, p)
		first = false
	}
	for _, n := range args.Named {
		if !first {
			b.WriteString(", ")
		}
		b.WriteString(n.Name.Name)
		b.WriteString(": ")
		serializeExpression(b, n.Value)
		first = false
	}
	b.WriteByte(')')
}
