package sphinxql

import (
	"strconv"
	"strings"
)

type matchOp int

const (
	matchTerm matchOp = iota
	matchPhrase
	matchField
	matchAnd
	matchOr
	matchNot
	matchMaybe
	matchProximity
	matchQuorum
	matchSentence
	matchParagraph
	matchZone
	matchZoneSpan
)

// MatchExpr is a composable full-text query. Build trees with the
// constructors below; String renders the engine's query syntax with every
// literal escaped, and Query.Match binds the rendered text as a single
// parameter:
//
//	q.Match(sphinxql.MatchAnd(
//		sphinxql.MatchField(sphinxql.Phrase("hello world"), "title"),
//		sphinxql.MatchNot(sphinxql.Term("spam")),
//	))
type MatchExpr struct {
	op       matchOp
	text     string
	n        int
	fields   []string
	operands []*MatchExpr
}

// Term matches text as literal keywords, full-text operators escaped.
func Term(text string) *MatchExpr {
	return &MatchExpr{op: matchTerm, text: text}
}

// Phrase matches text as an exact phrase.
func Phrase(text string) *MatchExpr {
	return &MatchExpr{op: matchPhrase, text: text}
}

// MatchField restricts operand to the given full-text fields: one field
// renders @field, several render @(a,b), none renders @*.
func MatchField(operand *MatchExpr, fields ...string) *MatchExpr {
	return &MatchExpr{op: matchField, operands: []*MatchExpr{operand}, fields: fields}
}

// MatchAnd requires every operand, the engine's implicit-AND juxtaposition.
func MatchAnd(operands ...*MatchExpr) *MatchExpr {
	return &MatchExpr{op: matchAnd, operands: operands}
}

// MatchOr accepts any operand.
func MatchOr(operands ...*MatchExpr) *MatchExpr {
	return &MatchExpr{op: matchOr, operands: operands}
}

// MatchNot excludes operand.
func MatchNot(operand *MatchExpr) *MatchExpr {
	return &MatchExpr{op: matchNot, operands: []*MatchExpr{operand}}
}

// Maybe ranks right-matching rows higher without requiring right.
func Maybe(left, right *MatchExpr) *MatchExpr {
	return &MatchExpr{op: matchMaybe, operands: []*MatchExpr{left, right}}
}

// Proximity matches the phrase words within distance words of each other.
func Proximity(phrase string, distance int) *MatchExpr {
	return &MatchExpr{op: matchProximity, text: phrase, n: distance}
}

// Quorum matches when at least threshold of the phrase words occur.
func Quorum(phrase string, threshold int) *MatchExpr {
	return &MatchExpr{op: matchQuorum, text: phrase, n: threshold}
}

// Sentence requires all operands within one sentence. Operands should be
// terms or phrases.
func Sentence(operands ...*MatchExpr) *MatchExpr {
	return &MatchExpr{op: matchSentence, operands: operands}
}

// Paragraph requires all operands within one paragraph.
func Paragraph(operands ...*MatchExpr) *MatchExpr {
	return &MatchExpr{op: matchParagraph, operands: operands}
}

// ZoneIn limits matching to the given markup zones.
func ZoneIn(zones ...string) *MatchExpr {
	return &MatchExpr{op: matchZone, fields: zones}
}

// ZoneSpan limits matching to a single continuous span of zone.
func ZoneSpan(zone string) *MatchExpr {
	return &MatchExpr{op: matchZoneSpan, fields: []string{zone}}
}

// String renders the expression in the engine's full-text query syntax.
func (m *MatchExpr) String() string {
	var sb strings.Builder
	m.render(&sb)
	return sb.String()
}

func (m *MatchExpr) render(sb *strings.Builder) {
	switch m.op {
	case matchTerm:
		sb.WriteString(EscapeMatch(m.text))
	case matchPhrase:
		sb.WriteByte('"')
		sb.WriteString(EscapeMatch(m.text))
		sb.WriteByte('"')
	case matchField:
		sb.WriteByte('@')
		switch len(m.fields) {
		case 0:
			sb.WriteByte('*')
		case 1:
			sb.WriteString(m.fields[0])
		default:
			sb.WriteByte('(')
			sb.WriteString(strings.Join(m.fields, ","))
			sb.WriteByte(')')
		}
		sb.WriteByte(' ')
		m.operands[0].render(sb)
	case matchAnd, matchOr:
		sep := " "
		if m.op == matchOr {
			sep = " | "
		}
		for i, operand := range m.operands {
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteByte('(')
			operand.render(sb)
			sb.WriteByte(')')
		}
	case matchNot:
		sb.WriteString("-(")
		m.operands[0].render(sb)
		sb.WriteByte(')')
	case matchMaybe:
		sb.WriteByte('(')
		m.operands[0].render(sb)
		sb.WriteString(") MAYBE (")
		m.operands[1].render(sb)
		sb.WriteByte(')')
	case matchProximity:
		sb.WriteByte('"')
		sb.WriteString(EscapeMatch(m.text))
		sb.WriteString(`"~`)
		sb.WriteString(strconv.Itoa(m.n))
	case matchQuorum:
		sb.WriteByte('"')
		sb.WriteString(EscapeMatch(m.text))
		sb.WriteString(`"/`)
		sb.WriteString(strconv.Itoa(m.n))
	case matchSentence, matchParagraph:
		keyword := " SENTENCE "
		if m.op == matchParagraph {
			keyword = " PARAGRAPH "
		}
		for i, operand := range m.operands {
			if i > 0 {
				sb.WriteString(keyword)
			}
			operand.render(sb)
		}
	case matchZone:
		sb.WriteString("ZONE:")
		if len(m.fields) == 1 {
			sb.WriteString(m.fields[0])
		} else {
			sb.WriteByte('(')
			sb.WriteString(strings.Join(m.fields, ","))
			sb.WriteByte(')')
		}
	case matchZoneSpan:
		sb.WriteString("ZONESPAN:")
		sb.WriteString(m.fields[0])
	}
}
