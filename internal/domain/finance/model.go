package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

type Category string

const (
	CategoryMatchRevenue Category = "MATCH_REVENUE"
	CategoryMonthlyFee   Category = "MONTHLY_FEE"
	CategoryDonation     Category = "DONATION"
	CategorySponsorship  Category = "SPONSORSHIP"
	CategoryFieldRent    Category = "FIELD_RENT"
	CategoryEquipment    Category = "EQUIPMENT"
	CategoryEventBBQ     Category = "EVENT_BBQ"
	CategoryGifts        Category = "GIFTS"
	CategoryOther        Category = "OTHER"
)

// CategoriesByType lists the categories allowed for each transaction type.
var CategoriesByType = map[Type]map[Category]struct{}{
	TypeIncome: {
		CategoryMatchRevenue: {},
		CategoryMonthlyFee:   {},
		CategoryDonation:     {},
		CategorySponsorship:  {},
		CategoryOther:        {},
	},
	TypeExpense: {
		CategoryFieldRent: {},
		CategoryEquipment: {},
		CategoryEventBBQ:  {},
		CategoryGifts:     {},
		CategoryOther:     {},
	},
}

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Transaction is a ledger row. Rows derived from matches or monthly fees use
// deterministic IDs so they can be upserted.
type Transaction struct {
	ID              string
	GroupID         string
	Type            Type
	Category        Category
	Description     string
	Amount          decimal.Decimal
	Date            string
	RelatedPlayerID string
	RelatedMatchID  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if t.GroupID == "" {
		return fmt.Errorf("transaction group id is required")
	}
	categories, ok := CategoriesByType[t.Type]
	if !ok {
		return fmt.Errorf("invalid transaction type: %s", t.Type)
	}
	if _, ok := categories[t.Category]; !ok {
		return fmt.Errorf("category %s is not allowed for %s", t.Category, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be greater than zero")
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return fmt.Errorf("transaction date must be YYYY-MM-DD, got %q", t.Date)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("transaction description is required")
	}

	return nil
}

// Signed is the amount with expenses negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Filter narrows a ledger listing to an inclusive date range.
type Filter struct {
	From string
	To   string
}

func (f Filter) Match(t Transaction) bool {
	if f.From != "" && t.Date < f.From {
		return false
	}
	if f.To != "" && t.Date > f.To {
		return false
	}
	return true
}

type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

func Summarize(items []Transaction) Summary {
	out := Summary{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
	for _, t := range items {
		switch t.Type {
		case TypeIncome:
			out.Income = out.Income.Add(t.Amount)
		case TypeExpense:
			out.Expense = out.Expense.Add(t.Amount)
		}
	}
	out.Balance = out.Income.Sub(out.Expense)
	return out
}

func MatchRevenueID(matchID string) string {
	return "tx_" + matchID
}

func FieldRentID(matchID string) string {
	return "tx_field_" + matchID
}

func MonthlyFeeID(groupID, month string) string {
	return "tx_mensalistas_" + groupID + "_" + month
}

// MatchRevenueDescription renders "Pagamentos Avulsos - dd/mm/yyyy - field".
func MatchRevenueDescription(matchDate, fieldName string) string {
	out := "Pagamentos Avulsos - " + brazilianDate(matchDate)
	if name := strings.TrimSpace(fieldName); name != "" {
		out += " - " + name
	}
	return out
}

func FieldRentDescription(fieldName string) string {
	name := strings.TrimSpace(fieldName)
	if name == "" {
		name = "Campo"
	}
	return "Aluguel Campo - " + name
}

// MonthlyFeeDescription renders "Mensalistas - MM/YYYY".
func MonthlyFeeDescription(month string) string {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "Mensalistas - " + month
	}
	return "Mensalistas - " + t.Format("01/2006")
}

// MonthlyFee marks a subscriber's dues as paid for one month.
type MonthlyFee struct {
	GroupID  string
	PlayerID string
	Month    string
	Amount   decimal.Decimal
	PaidAt   time.Time
}

func (f MonthlyFee) Validate() error {
	if f.GroupID == "" || f.PlayerID == "" {
		return fmt.Errorf("monthly fee group and player are required")
	}
	if _, err := time.Parse(MonthLayout, f.Month); err != nil {
		return fmt.Errorf("monthly fee month must be YYYY-MM, got %q", f.Month)
	}
	if f.Amount.IsNegative() {
		return fmt.Errorf("monthly fee amount must not be negative")
	}
	return nil
}

func brazilianDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
