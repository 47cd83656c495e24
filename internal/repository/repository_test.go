package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"

	"priceping/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var mockProduct = model.Product{
	UserID:       "u1",
	URL:          "https://a.example/1",
	Name:         "A",
	CurrentPrice: decimal.RequireFromString("100"),
	Currency:     "INR",
}

func TestHistoryRepositoryInsert(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO price_history`).
		WithArgs(pgxmock.AnyArg(), "p1", "80", "INR").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewHistoryRepository(mock)
	if err := repo.Insert(context.Background(), "p1", dec("80"), "INR"); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
}

func TestHistoryRepositoryListByProduct(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM price_history`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "price", "currency", "recorded_at"}).
			AddRow("h2", "p1", "80", "INR", now).
			AddRow("h1", "p1", "100.00", "INR", now.Add(-time.Hour)))

	repo := NewHistoryRepository(mock)
	out, err := repo.ListByProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListByProduct() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("ListByProduct() returned %d rows; want 2", len(out))
	}
	if out[0].Price.String() != "80" {
		t.Errorf("price = %s; want 80", out[0].Price)
	}
}

func TestUserRepositoryGetEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT email FROM users`).
			WithArgs("u1").
			WillReturnRows(pgxmock.NewRows([]string{"email"}).AddRow("user@example.com"))

		repo := NewUserRepository(mock)
		email, err := repo.GetEmail(context.Background(), "u1")
		if err != nil {
			t.Fatalf("GetEmail() error: %v", err)
		}
		if email != "user@example.com" {
			t.Errorf("GetEmail() = %q", email)
		}
	})

	t.Run("unknown user is not an error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT email FROM users`).
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		repo := NewUserRepository(mock)
		email, err := repo.GetEmail(context.Background(), "ghost")
		if err != nil {
			t.Fatalf("GetEmail() error: %v", err)
		}
		if email != "" {
			t.Errorf("GetEmail() = %q; want empty", email)
		}
	})
}

func TestUserRepositoryGetByToken(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT id, email, api_token FROM users`).
			WithArgs("tok-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "api_token"}).
				AddRow("u1", "user@example.com", "tok-1"))

		repo := NewUserRepository(mock)
		u, err := repo.GetByToken(context.Background(), "tok-1")
		if err != nil {
			t.Fatalf("GetByToken() error: %v", err)
		}
		if u == nil || u.ID != "u1" {
			t.Errorf("GetByToken() = %+v; want user u1", u)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT id, email, api_token FROM users`).
			WithArgs("bad").
			WillReturnError(pgx.ErrNoRows)

		repo := NewUserRepository(mock)
		u, err := repo.GetByToken(context.Background(), "bad")
		if err != nil {
			t.Fatalf("GetByToken() error: %v", err)
		}
		if u != nil {
			t.Errorf("GetByToken() = %+v; want nil", u)
		}
	})
}
