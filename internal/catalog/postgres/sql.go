package postgres

import (
	"fmt"
	"strings"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/predicate"
)

// columnExpr maps a predicate field to the SQL expression it is matched
// against. The JSONB casts deliberately cover name and value sides of
// specifications and FAQs with one expression; duplicates are collapsed
// before the clause is rendered.
func columnExpr(f predicate.Field) string {
	switch f {
	case predicate.FieldTitle:
		return "title"
	case predicate.FieldDescription:
		return "description"
	case predicate.FieldShortDescription:
		return "short_description"
	case predicate.FieldBrand:
		return "brand"
	case predicate.FieldKeywords:
		return "array_to_string(keywords, ' ')"
	case predicate.FieldProductCode:
		return "product_code"
	case predicate.FieldSizes:
		return "array_to_string(sizes, ' ')"
	case predicate.FieldSpecNames, predicate.FieldSpecValues:
		return "specifications::text"
	case predicate.FieldFAQQuestions, predicate.FieldFAQAnswers:
		return "faqs::text"
	default:
		return ""
	}
}

// escapeLike escapes the LIKE metacharacters so a token only ever matches
// as a literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// compilePredicate renders the predicate as a WHERE fragment (leading
// " WHERE ..." or "" when no clause is present) plus its ordered
// arguments. Argument placeholders continue from len(args)+1 so callers
// can append paging arguments afterwards.
func compilePredicate(p *predicate.Predicate) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if p != nil && p.Text != nil && len(p.Text.Tokens) > 0 {
		if cond := compileTextClause(p.Text, &args); cond != "" {
			conds = append(conds, cond)
		}
	}

	if p != nil && p.Category != nil {
		args = append(args, p.Category.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}

	if p != nil && p.Price != nil {
		conds = append(conds, compilePriceClause(p.Price, &args))
	}

	if p != nil && p.Availability != nil {
		args = append(args, string(p.Availability.Availability))
		conds = append(conds, fmt.Sprintf("availability = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// compileTextClause renders the any-token-any-field disjunction. One
// argument is bound per token and reused across all field expressions.
func compileTextClause(clause *predicate.TextClause, args *[]any) string {
	exprs := make([]string, 0, len(clause.Fields))
	seen := make(map[string]struct{}, len(clause.Fields))
	for _, f := range clause.Fields {
		expr := columnExpr(f)
		if expr == "" {
			continue
		}
		if _, dup := seen[expr]; dup {
			continue
		}
		seen[expr] = struct{}{}
		exprs = append(exprs, expr)
	}
	if len(exprs) == 0 {
		return ""
	}

	var ors []string
	for _, token := range clause.Tokens {
		*args = append(*args, "%"+escapeLike(token)+"%")
		idx := len(*args)
		for _, expr := range exprs {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", expr, idx))
		}
	}
	return "(" + strings.Join(ors, " OR ") + ")"
}

// compilePriceClause requires one BDT entry of the JSONB price list to
// fall inside the optional bounds.
func compilePriceClause(clause *predicate.PriceClause, args *[]any) string {
	*args = append(*args, clause.Currency)
	cond := fmt.Sprintf("pe->>'currency' = $%d", len(*args))

	if clause.Min != nil {
		*args = append(*args, *clause.Min)
		cond += fmt.Sprintf(" AND (pe->>'amount')::numeric >= $%d", len(*args))
	}
	if clause.Max != nil {
		*args = append(*args, *clause.Max)
		cond += fmt.Sprintf(" AND (pe->>'amount')::numeric <= $%d", len(*args))
	}

	return "EXISTS (SELECT 1 FROM jsonb_array_elements(prices) AS pe WHERE " + cond + ")"
}
