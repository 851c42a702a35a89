// Package accounts authenticates users and enforces the monthly project allowance of their
// plan.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrLimitReached       = errors.New("monthly project limit reached")
)

// passwordCost is lowered in tests.
var passwordCost = bcrypt.DefaultCost

// User is an account as seen by the rest of the application.
type User struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Plan              Plan       `json:"plan"`
	ProjectsThisMonth int        `json:"projects_this_month"`
	Active            bool       `json:"active"`
	Admin             bool       `json:"admin"`
	CreatedAt         time.Time  `json:"created_at"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
}

// Remaining returns the projects left this month, or Unlimited.
func (u User) Remaining() int {
	info := LookupPlan(u.Plan)
	if info.Unlimited() {
		return Unlimited
	}
	return max(info.MonthlyProjects-u.ProjectsThisMonth, 0)
}

// CanEstimate reports whether the user is under the plan's monthly cap.
func (u User) CanEstimate() bool {
	info := LookupPlan(u.Plan)
	return info.Unlimited() || u.ProjectsThisMonth < info.MonthlyProjects
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Service reads and updates user accounts.
type Service struct {
	db  *sql.DB
	now func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const userColumns = `id, email, name, plan, projects_this_month, is_active, is_admin, created_at, last_login`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var (
		u         User
		plan      string
		createdAt string
		lastLogin sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &plan, &u.ProjectsThisMonth, &u.Active, &u.Admin, &createdAt, &lastLogin); err != nil {
		return User{}, err
	}
	u.Plan = Plan(plan)
	u.CreatedAt = parseTime(createdAt)
	if lastLogin.Valid {
		t := parseTime(lastLogin.String)
		u.LastLogin = &t
	}
	return u, nil
}

// Create registers a new account.
func (s *Service) Create(ctx context.Context, email, password, name string, plan Plan) (User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return User{}, errors.New("email and password are required")
	}
	if !plan.Valid() {
		return User{}, fmt.Errorf("unknown plan %q", plan)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name, plan)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, email, hash, strings.TrimSpace(name), string(plan))
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return User{}, ErrEmailTaken
	}

	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("read user id: %w", err)
	}
	return s.Get(ctx, id)
}

// Authenticate checks the credentials of an active user and stamps the login time.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	var hash string
	var id int64
	var active bool
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash, is_active FROM users WHERE email = ?`,
		NormalizeEmail(email),
	).Scan(&id, &hash, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("query user credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !active {
		return User{}, ErrInvalidCredentials
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		s.now().Format(time.RFC3339), id,
	); err != nil {
		return User{}, fmt.Errorf("update last login: %w", err)
	}

	return s.Get(ctx, id)
}

// Get loads a user by id.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// MayEstimate reports whether the user may run another estimate this month.
func (s *Service) MayEstimate(ctx context.Context, id int64) (bool, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return u.Active && u.CanEstimate(), nil
}

// RecordUsage counts one completed estimate against the user's monthly allowance.
// The increment only applies while the user is active and under the plan's cap, so
// concurrent estimates cannot overshoot it; otherwise ErrLimitReached is returned.
func (s *Service) RecordUsage(ctx context.Context, id int64) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	limit := LookupPlan(u.Plan).MonthlyProjects

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET projects_this_month = projects_this_month + 1
		WHERE id = ? AND is_active = 1 AND plan = ?
		  AND (? = -1 OR projects_this_month < ?)
	`, id, string(u.Plan), limit, limit)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	if n == 0 {
		return ErrLimitReached
	}
	return nil
}

// ResetMonthlyUsage zeroes every user's counter and returns how many rows changed.
func (s *Service) ResetMonthlyUsage(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET projects_this_month = 0 WHERE projects_this_month <> 0`)
	if err != nil {
		return 0, fmt.Errorf("reset monthly usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset monthly usage: %w", err)
	}
	return n, nil
}

// NormalizeEmail is the form in which emails are stored and looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseTime(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
