package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// nullText creates a pgtype.Text with empty string handling
func nullText(p *string) pgtype.Text {
	if p == nil || *p == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *p, Valid: true}
}

// nullNumeric parses a gateway amount string. Anything unparsable is
// stored as NULL rather than failing the write.
func nullNumeric(p *string) pgtype.Numeric {
	var n pgtype.Numeric
	if p == nil || *p == "" {
		return n
	}
	if err := n.Scan(*p); err != nil {
		return pgtype.Numeric{}
	}
	return n
}
