package catalog

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/videoreport/video"
)

const (
	kindPhoto = 0
	kindVideo = 1
)

// Query is a parameterized SQL statement
type Query struct {
	SQL  string
	Args []any
}

// whereBuilder collects AND-ed conditions with their bound arguments
type whereBuilder struct {
	clauses []string
	args    []any
}

func (wb *whereBuilder) add(clause string, args ...any) {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
}

func (wb *whereBuilder) build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", nil
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// globEscaper turns every GLOB wildcard into a single-character class so the
// search term only ever matches literally
var globEscaper = strings.NewReplacer("[", "[[]", "*", "[*]", "?", "[?]")

// QueryBuilder composes filter criteria into a video query
type QueryBuilder struct {
	originalNames bool
}

// NewQueryBuilder returns a builder. originalNames joins the attributes table so
// the pre-import filename is preferred over the internal one.
func NewQueryBuilder(originalNames bool) QueryBuilder {
	return QueryBuilder{originalNames: originalNames}
}

func (b QueryBuilder) filenameExpr() string {
	if b.originalNames {
		return "COALESCE(NULLIF(x.ZORIGINALFILENAME, ''), a.ZFILENAME)"
	}
	return "a.ZFILENAME"
}

func (b QueryBuilder) from() string {
	if b.originalNames {
		return assetTable + " a LEFT JOIN " + attributesTable + " x ON x.ZASSET = a.Z_PK"
	}
	return assetTable + " a"
}

// Build turns criteria into a single parameterized SELECT over video assets
func (b QueryBuilder) Build(c video.FilterCriteria) (Query, error) {
	if err := c.Validate(); err != nil {
		return Query{}, fmt.Errorf("invalid filter: %w", err)
	}

	wb := &whereBuilder{}
	wb.add("a.ZKIND = ?", kindVideo)

	if c.MinDuration != nil {
		wb.add("a.ZDURATION >= ?", *c.MinDuration)
	} else {
		wb.add("a.ZDURATION > 0")
	}
	if c.MaxDuration != nil {
		wb.add("a.ZDURATION <= ?", *c.MaxDuration)
	}

	if c.DateFrom != nil {
		wb.add("a.ZDATECREATED >= ?", video.ToRawOffset(*c.DateFrom))
	}
	if c.DateBefore != nil {
		wb.add("a.ZDATECREATED < ?", video.ToRawOffset(*c.DateBefore))
	}

	if c.Resolution != nil {
		lo, hi, ok := c.Resolution.PixelRange()
		if !ok {
			return Query{}, fmt.Errorf("invalid filter: resolution %s has no pixel range", c.Resolution)
		}
		wb.add("a.ZWIDTH > 0 AND a.ZHEIGHT > 0")
		if hi == 0 {
			wb.add("(a.ZWIDTH * a.ZHEIGHT) >= ?", lo)
		} else {
			wb.add("(a.ZWIDTH * a.ZHEIGHT) BETWEEN ? AND ?", lo, hi)
		}
	}

	if c.SearchTerm != "" {
		wb.add(b.filenameExpr()+" GLOB ?", "*"+globEscaper.Replace(c.SearchTerm)+"*")
	}

	where, args := wb.build()

	var sb strings.Builder
	sb.WriteString("SELECT a.ZDURATION, ")
	sb.WriteString(b.filenameExpr())
	// TIMESTAMP has numeric affinity, so whole seconds are stored as integers
	// which the driver would hand back as time.Time
	sb.WriteString(" AS filename, CAST(a.ZDATECREATED AS REAL), a.ZWIDTH, a.ZHEIGHT, a.Z_PK, a.ZFAVORITE, a.ZHIDDEN, a.ZTRASHEDSTATE")
	sb.WriteString(" FROM ")
	sb.WriteString(b.from())
	sb.WriteString(" WHERE ")
	sb.WriteString(where)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy(c.SortBy))
	sb.WriteString(", a.Z_PK ASC")

	if c.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, c.Limit)
	}

	return Query{SQL: sb.String(), Args: args}, nil
}

func orderBy(field video.SortField) string {
	switch field {
	case video.SortByDate:
		return "a.ZDATECREATED DESC"
	case video.SortBySize:
		return "(a.ZWIDTH * a.ZHEIGHT) DESC"
	case video.SortByFilename:
		return "filename ASC"
	default:
		return "a.ZDURATION DESC"
	}
}
