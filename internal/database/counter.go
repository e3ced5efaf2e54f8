package database

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/mailscout/internal/model"
)

// ReadCounter returns the number of sites processed today.
func (s *Store) ReadCounter(ctx context.Context) (int, error) {
	return s.dayTotal(ctx, s.clock().Format(dayFormat))
}

// IncrementCounter appends a request_log row of n for today. The run ID
// carried by ctx, if any, is stored with it. Zero is a no-op.
func (s *Store) IncrementCounter(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIncrement, n)
	}
	if n == 0 {
		return nil
	}

	query := `INSERT INTO request_log (day, amount, run_id) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		s.clock().Format(dayFormat),
		n,
		model.RunIDFromContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to increment counter: %w", err)
	}
	return nil
}

// dayTotal sums the amounts logged for day.
func (s *Store) dayTotal(ctx context.Context, day string) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(amount), 0) FROM request_log WHERE day = ?`
	if err := s.db.QueryRowContext(ctx, query, day).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return total, nil
}

// DailyTotal is the counter value of one day.
type DailyTotal struct {
	// Day is the calendar day, formatted 2006-01-02.
	Day string

	// Total is the number of sites processed that day.
	Total int
}

// DailyTotals returns the counter for the last days days, today last.
// Days without activity are reported with a zero total.
func (s *Store) DailyTotals(ctx context.Context, days int) ([]DailyTotal, error) {
	if days <= 0 {
		return []DailyTotal{}, nil
	}

	now := s.clock()
	first := dayKey(now, -(days - 1))

	rows, err := s.db.QueryContext(ctx, `
	SELECT day, SUM(amount) FROM request_log
	WHERE day >= ?
	GROUP BY day
	`, first)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var day string
		var total int
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		totals[day] = total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]DailyTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := dayKey(now, -i)
		result = append(result, DailyTotal{Day: day, Total: totals[day]})
	}
	return result, nil
}

// dayKey formats the day offset days away from t.
func dayKey(t time.Time, offset int) string {
	return t.AddDate(0, 0, offset).Format(dayFormat)
}
