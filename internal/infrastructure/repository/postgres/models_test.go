package postgres

import (
	"strconv"
	"strings"
	"testing"

	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	qb "github.com/riskibarqy/futgol/internal/platform/querybuilder"
)

func TestGroupToRow_NeverWritesNullArrays(t *testing.T) {
	t.Parallel()

	row := groupToRow(group.Group{ID: "g1", AdminID: "u1", Admins: []string{"u1"}, Members: []string{"u1"}})
	if row.PendingRequests == nil {
		t.Fatalf("pending requests must be an empty array, not NULL")
	}
	value, err := row.PendingRequests.Value()
	if err != nil {
		t.Fatalf("array value: %v", err)
	}
	if value != "{}" {
		t.Fatalf("unexpected array literal %v", value)
	}

	back := groupFromRow(row)
	if back.AdminID != "u1" || len(back.Members) != 1 || back.PendingRequests == nil {
		t.Fatalf("unexpected group: %+v", back)
	}
}

func TestMatchUpdateQuery_SkipsCreatedAt(t *testing.T) {
	t.Parallel()

	query, args, err := qb.UpdateModel("matches", matchToRow(match.Match{ID: "m1", GroupID: "g1", Date: "2026-03-14", Time: "20:00"}), "id")
	if err != nil {
		t.Fatalf("build update: %v", err)
	}
	if strings.Contains(query, "created_at") {
		t.Fatalf("update must not overwrite created_at: %s", query)
	}
	if !strings.HasSuffix(query, "WHERE id = $"+strconv.Itoa(len(args))) {
		t.Fatalf("unexpected where clause: %s", query)
	}
	if args[len(args)-1] != "m1" {
		t.Fatalf("expected id as last argument, got %+v", args[len(args)-1])
	}
}

