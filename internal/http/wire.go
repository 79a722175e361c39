package http

import (
	"farmledger/internal/core"
	"farmledger/internal/report"
	"farmledger/internal/services"
)

// Wire formats: dates travel as YYYY-MM-DD strings, money as decimal
// rupees. Paise are an internal representation only.

type estateJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type workerJSON struct {
	ID        string  `json:"id"`
	EstateID  string  `json:"estateId"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone,omitempty"`
	DailyWage float64 `json:"dailyWage"`
}

type createEstateRequest struct {
	Name string `json:"name"`
}

type createWorkerRequest struct {
	EstateID  string  `json:"estateId"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	DailyWage float64 `json:"dailyWage"`
}

type payWageRequest struct {
	WorkerID    string  `json:"workerId"`
	Year        int     `json:"year"`
	Month       int     `json:"month"` // 0-based, January = 0
	WeekOfMonth int     `json:"weekOfMonth"`
	DaysWorked  int     `json:"daysWorked"`
	Deduction   float64 `json:"deduction"`
}

type createExpenseRequest struct {
	EstateID    string  `json:"estateId"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type saleItemRequest struct {
	Crop       string  `json:"crop"`
	SubType    string  `json:"subType"`
	WeightKg   float64 `json:"weightKg"`
	PricePerKg float64 `json:"pricePerKg"`
}

type createSaleRequest struct {
	EstateID  string            `json:"estateId"`
	Date      string            `json:"date"`
	BuyerName string            `json:"buyerName"`
	Items     []saleItemRequest `json:"items"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type periodJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type totalsJSON struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

type seriesPointJSON struct {
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type transactionJSON struct {
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	Label       string  `json:"label"`
	Amount      float64 `json:"amount"`
	EstateID    string  `json:"estateId"`
	EstateName  string  `json:"estateName,omitempty"`
	Description string  `json:"description,omitempty"`
	BuyerName   string  `json:"buyerName,omitempty"`
}

type timelineGroupJSON struct {
	Day   string            `json:"day"`
	Items []transactionJSON `json:"items"`
}

type reportResponse struct {
	Period      periodJSON          `json:"period"`
	Totals      totalsJSON          `json:"totals"`
	Series      []seriesPointJSON   `json:"series"`
	Timeline    []timelineGroupJSON `json:"timeline"`
	Recent      []transactionJSON   `json:"recent"`
	Diagnostics []report.Diagnostic `json:"diagnostics"`
}

func estateToWire(e core.Estate) estateJSON {
	return estateJSON{ID: e.ID, Name: e.Name}
}

func workerToWire(w core.Worker) workerJSON {
	return workerJSON{
		ID:        w.ID,
		EstateID:  w.EstateID,
		Name:      w.Name,
		Phone:     w.Phone,
		DailyWage: w.DailyWage.Rupees(),
	}
}

func transactionToWire(tx report.Transaction, names map[string]string) transactionJSON {
	return transactionJSON{
		Date:        tx.Date.String(),
		Kind:        string(tx.Kind),
		Label:       tx.Label,
		Amount:      tx.Amount.Rupees(),
		EstateID:    tx.EstateID,
		EstateName:  names[tx.EstateID],
		Description: tx.Description,
		BuyerName:   tx.BuyerName,
	}
}

func reportToWire(rep *services.Report) reportResponse {
	out := reportResponse{
		Period: periodJSON{
			Start: rep.Period.Start.String(),
			End:   rep.Period.End.String(),
		},
		Totals: totalsJSON{
			Income:  rep.Totals.Income.Rupees(),
			Expense: rep.Totals.Expense.Rupees(),
			Profit:  rep.Totals.Profit.Rupees(),
		},
		Series:      make([]seriesPointJSON, 0, len(rep.Series)),
		Timeline:    make([]timelineGroupJSON, 0, len(rep.Timeline)),
		Recent:      make([]transactionJSON, 0, len(rep.Recent)),
		Diagnostics: rep.Diagnostics,
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []report.Diagnostic{}
	}

	for _, p := range rep.Series {
		out.Series = append(out.Series, seriesPointJSON{
			Label:   p.Label,
			Income:  p.Income.Rupees(),
			Expense: p.Expense.Rupees(),
		})
	}
	for _, g := range rep.Timeline {
		group := timelineGroupJSON{Day: g.DayLabel, Items: make([]transactionJSON, 0, len(g.Items))}
		for _, tx := range g.Items {
			group.Items = append(group.Items, transactionToWire(tx, rep.EstateNames))
		}
		out.Timeline = append(out.Timeline, group)
	}
	for _, tx := range rep.Recent {
		out.Recent = append(out.Recent, transactionToWire(tx, rep.EstateNames))
	}
	return out
}
