package querybuilder

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "amount").
		From("transactions").
		Where(Eq("group_id", "g1"), Gte("tx_date", "2026-01-01"), Lte("tx_date", "2026-01-31")).
		OrderBy("tx_date DESC", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT id, amount FROM transactions WHERE group_id = $1 AND tx_date >= $2 AND tx_date <= $3 ORDER BY tx_date DESC, id LIMIT 10"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{"g1", "2026-01-01", "2026-01-31"}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestConditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cond  Condition
		want  string
		wantN int
	}{
		{name: "array membership", cond: Has("members", "u1"), want: "SELECT id FROM groups WHERE $1 = ANY(members)", wantN: 1},
		{name: "case insensitive", cond: EqFold("email", "A@B.COM"), want: "SELECT id FROM groups WHERE LOWER(email) = $1", wantN: 1},
		{name: "or", cond: Or(Eq("id", "c1"), Eq("parent_id", "c1")), want: "SELECT id FROM groups WHERE (id = $1 OR parent_id = $2)", wantN: 2},
		{name: "empty or", cond: Or(), want: "SELECT id FROM groups WHERE FALSE", wantN: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			query, args, err := Select("id").From("groups").Where(tc.cond).ToSQL()
			if err != nil {
				t.Fatalf("build select: %v", err)
			}
			if query != tc.want {
				t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", tc.want, query)
			}
			if len(args) != tc.wantN {
				t.Fatalf("expected %d args, got %+v", tc.wantN, args)
			}
		})
	}

	_, args, _ := Select("id").From("users").Where(EqFold("email", "A@B.COM")).ToSQL()
	if args[0] != "a@b.com" {
		t.Fatalf("expected lowered arg, got %v", args[0])
	}
}

func TestSelect_RequiresTableAndColumns(t *testing.T) {
	t.Parallel()

	if _, _, err := Select().From("users").ToSQL(); !errors.Is(err, errNoColumns) {
		t.Fatalf("expected errNoColumns, got %v", err)
	}
	if _, _, err := Select("id").ToSQL(); !errors.Is(err, errNoTable) {
		t.Fatalf("expected errNoTable, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	query, args, err := DeleteFrom("monthly_fees").
		Where(Eq("group_id", "g1"), Eq("month", "2026-03")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}

	want := "DELETE FROM monthly_fees WHERE group_id = $1 AND month = $2"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("monthly_fees").ToSQL(); !errors.Is(err, errUnscoped) {
		t.Fatalf("expected unscoped delete to fail, got %v", err)
	}
}

type feeRow struct {
	ID        string    `db:"id"`
	GroupID   string    `db:"group_id"`
	Amount    string    `db:"amount,omitempty"`
	CreatedAt time.Time `db:"created_at"`
	Note      string    `db:"-"`
	internal  string
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := InsertModel("monthly_fees", &feeRow{ID: "f1", GroupID: "g1", Amount: "80", CreatedAt: created, Note: "x", internal: "y"})
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	want := "INSERT INTO monthly_fees (id, group_id, amount, created_at) VALUES ($1, $2, $3, $4)"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{"f1", "g1", "80", created}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpsertModel(t *testing.T) {
	t.Parallel()

	query, args, err := UpsertModel("monthly_fees", feeRow{ID: "f1", GroupID: "g1", Amount: "80"}, "id")
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}

	want := "INSERT INTO monthly_fees (id, group_id, amount, created_at) VALUES ($1, $2, $3, $4)" +
		" ON CONFLICT (id) DO UPDATE SET group_id = EXCLUDED.group_id, amount = EXCLUDED.amount"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := UpsertModel("monthly_fees", feeRow{}, "uuid"); err == nil {
		t.Fatalf("expected error for unknown conflict key")
	}
}

func TestUpdateModel(t *testing.T) {
	t.Parallel()

	query, args, err := UpdateModel("monthly_fees", feeRow{ID: "f1", GroupID: "g1", Amount: "90"}, "id")
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE monthly_fees SET group_id = $1, amount = $2 WHERE id = $3"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{"g1", "90", "f1"}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestModel_Rejects(t *testing.T) {
	t.Parallel()

	var nilRow *feeRow
	if _, _, err := InsertModel("monthly_fees", nilRow); err == nil {
		t.Fatalf("expected nil model error")
	}
	if _, _, err := InsertModel("monthly_fees", "not a struct"); err == nil {
		t.Fatalf("expected non-struct error")
	}
	if _, _, err := InsertModel("monthly_fees", struct{ X int }{}); !errors.Is(err, errNoColumns) {
		t.Fatalf("expected errNoColumns, got %v", err)
	}
	if _, _, err := InsertModel("", feeRow{}); !errors.Is(err, errNoTable) {
		t.Fatalf("expected errNoTable, got %v", err)
	}
}
