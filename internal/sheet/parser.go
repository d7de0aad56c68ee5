package sheet

import (
	"time"

	"go.uber.org/zap"
)

// Plan is what a grid resolves to: the shared metadata, the roster and the columns whose
// groups are due today.
type Plan struct {
	Metadata Metadata
	Contacts Contacts
	Due      []ScheduleColumn
}

type Parser struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewParser returns a Parser that decides which columns are due by now. The location of the
// returned time is used to read schedule dates.
func NewParser(logger *zap.Logger, now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{
		logger: logger,
		now:    now,
	}
}

// Parse classifies every column of g from left to right.
//
// A malformed key/value or name/phone block aborts the whole grid since every group depends on
// it. Columns with an unrecognised header are ignored.
func (p *Parser) Parse(g Grid) (*Plan, error) {
	now := p.now()
	plan := &Plan{
		Metadata: Metadata{},
		Contacts: Contacts{},
	}

	var seenKeys, seenNames bool
	for i, col := range g {
		switch col.Header() {
		case headerKey:
			if seenKeys {
				p.logger.Warn("Ignoring duplicate key/value block", zap.Int("column", i))
				continue
			}
			md, err := ParseKeyValue(col, g.Column(i+1))
			if err != nil {
				return nil, err
			}
			seenKeys = true
			plan.Metadata = md
			p.logger.Info("Parsed metadata", zap.Int("column", i), zap.Any("info", md))

		case headerName:
			if seenNames {
				p.logger.Warn("Ignoring duplicate contact block", zap.Int("column", i))
				continue
			}
			contacts, err := ParseContacts(col, g.Column(i+1))
			if err != nil {
				return nil, err
			}
			seenNames = true
			plan.Contacts = contacts
			p.logger.Info("Parsed contacts", zap.Int("column", i), zap.Int("count", len(contacts)))

		case headerValue, headerPhone:
			// consumed with the column to the left

		default:
			date, ok := ParseDate(col.Cell(0), now.Location())
			if !ok {
				continue
			}

			sel := Select(date, now)
			fields := []zap.Field{zap.Int("column", i), zap.String("date", col.Cell(0)), zap.Stringer("selection", sel)}
			if sel != Due {
				p.logger.Debug("Not creating group for column", fields...)
				continue
			}
			p.logger.Info("Column is due today, creating group", fields...)
			plan.Due = append(plan.Due, ScheduleColumn{Index: i, Date: date, Column: col})
		}
	}

	return plan, nil
}
