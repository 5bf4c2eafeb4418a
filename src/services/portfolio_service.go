package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/finsight/backend/src/logger"
	"github.com/username/finsight/backend/src/models"
)

// ErrNotFound is returned when a holding or goal does not exist for the
// requesting user.
var ErrNotFound = errors.New("not found")

type portfolioService struct {
	db *sql.DB
}

func NewPortfolioService(db *sql.DB) PortfolioService {
	return &portfolioService{db: db}
}

func (s *portfolioService) ListHoldings(userID int64, portfolioID string) ([]models.Holding, error) {
	rows, err := s.db.Query(`
	SELECT id, name, instrument_class, units, price, invested_amount, current_value, updated_at
	FROM holdings WHERE user_id = ? AND portfolio_id = ?
	ORDER BY updated_at DESC, id`, userID, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("querying holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		var class string
		var units, price, invested, current sql.NullFloat64
		if err := rows.Scan(&h.ID, &h.Name, &class, &units, &price, &invested, &current, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning holding: %w", err)
		}
		h.InstrumentClass = models.AssetClass(class)
		h.Units = nullableFloat(units)
		h.Price = nullableFloat(price)
		h.InvestedAmount = nullableFloat(invested)
		h.CurrentValue = nullableFloat(current)
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (s *portfolioService) AddHolding(userID int64, portfolioID string, h models.Holding) (models.Holding, error) {
	h.ID = uuid.NewString()
	h.UpdatedAt = time.Now()
	_, err := s.db.Exec(`
	INSERT INTO holdings (id, user_id, portfolio_id, name, instrument_class, units, price, invested_amount, current_value, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, userID, portfolioID, h.Name, string(h.InstrumentClass),
		floatOrNil(h.Units), floatOrNil(h.Price), floatOrNil(h.InvestedAmount), floatOrNil(h.CurrentValue),
		h.UpdatedAt)
	if err != nil {
		return models.Holding{}, fmt.Errorf("inserting holding: %w", err)
	}
	logger.L.Info("holding added", "userID", userID, "portfolioID", portfolioID, "holdingID", h.ID, "class", h.InstrumentClass)
	return h, nil
}

func (s *portfolioService) DeleteHolding(userID int64, portfolioID, holdingID string) error {
	res, err := s.db.Exec(`DELETE FROM holdings WHERE id = ? AND user_id = ? AND portfolio_id = ?`,
		holdingID, userID, portfolioID)
	if err != nil {
		return fmt.Errorf("deleting holding: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *portfolioService) ListGoals(userID int64, portfolioID string) ([]models.Goal, error) {
	rows, err := s.db.Query(`
	SELECT id, name, target_amount, target_date, priority, created_at
	FROM goals WHERE user_id = ? AND portfolio_id = ?
	ORDER BY created_at DESC, id`, userID, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		var targetDate, priority string
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &targetDate, &priority, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, targetDate)
		if err != nil {
			return nil, fmt.Errorf("parsing goal target date %q: %w", targetDate, err)
		}
		g.TargetDate = parsed
		g.Priority = models.Priority(priority)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *portfolioService) AddGoal(userID int64, portfolioID string, g models.Goal) (models.Goal, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now()
	if g.Priority == "" {
		g.Priority = models.PriorityMedium
	}
	_, err := s.db.Exec(`
	INSERT INTO goals (id, user_id, portfolio_id, name, target_amount, target_date, priority, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, userID, portfolioID, g.Name, g.TargetAmount,
		g.TargetDate.Format(time.RFC3339), string(g.Priority), g.CreatedAt)
	if err != nil {
		return models.Goal{}, fmt.Errorf("inserting goal: %w", err)
	}
	logger.L.Info("goal added", "userID", userID, "portfolioID", portfolioID, "goalID", g.ID, "name", g.Name)
	return g, nil
}

func (s *portfolioService) DeleteGoal(userID int64, portfolioID, goalID string) error {
	res, err := s.db.Exec(`DELETE FROM goals WHERE id = ? AND user_id = ? AND portfolio_id = ?`,
		goalID, userID, portfolioID)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetConstraints returns the stored constraints, or the zero value when
// the user never saved any. Missing constraints are not an error.
func (s *portfolioService) GetConstraints(userID int64, portfolioID string) (models.Constraints, error) {
	var c models.Constraints
	var notes sql.NullString
	err := s.db.QueryRow(`
	SELECT ef_months, liquidity_amount, liquidity_months, notes
	FROM constraints WHERE user_id = ? AND portfolio_id = ?`, userID, portfolioID).
		Scan(&c.EFMonths, &c.LiquidityAmount, &c.LiquidityMonths, &notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Constraints{}, nil
		}
		return models.Constraints{}, fmt.Errorf("querying constraints: %w", err)
	}
	c.Notes = notes.String
	return c, nil
}

func (s *portfolioService) PutConstraints(userID int64, portfolioID string, c models.Constraints) error {
	_, err := s.db.Exec(`
	INSERT INTO constraints (user_id, portfolio_id, ef_months, liquidity_amount, liquidity_months, notes, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, portfolio_id) DO UPDATE SET
		ef_months = excluded.ef_months,
		liquidity_amount = excluded.liquidity_amount,
		liquidity_months = excluded.liquidity_months,
		notes = excluded.notes,
		updated_at = excluded.updated_at`,
		userID, portfolioID, c.EFMonths, c.LiquidityAmount, c.LiquidityMonths, c.Notes, time.Now())
	if err != nil {
		return fmt.Errorf("saving constraints: %w", err)
	}
	return nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func floatOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
