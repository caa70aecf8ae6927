package wheelhouse

// IncomeReport covers the non-trading cash flows: account-lifetime deposits
// and withdrawals, the window's income summary, and the individual rows
// behind it, newest first.
type IncomeReport struct {
	Window     Window
	WindowName string
	Deposited  Money
	Withdrawn  Money // positive
	Income     IncomeSummary
	Rows       []Row
	Monthly    []MonthlyPremium
}

// NewIncomeReport builds the income and fees view for the named window.
func NewIncomeReport(s *Snapshot, window string) (*IncomeReport, error) {
	w, err := s.Window(window)
	if err != nil {
		return nil, err
	}
	r := &IncomeReport{
		Window:     w,
		WindowName: window,
		Income:     s.Income(w),
		Monthly:    MonthlyOptionIncome(s.view),
	}
	for _, row := range s.view.Rows() {
		switch row.Sub {
		case SubDeposit:
			r.Deposited = r.Deposited.Add(row.Total)
		case SubWithdrawal:
			r.Withdrawn = r.Withdrawn.Add(row.Total)
		}
	}
	r.Withdrawn = r.Withdrawn.Abs()
	for _, row := range s.view.Rows() {
		if !w.Contains(row.Time) {
			continue
		}
		switch row.Sub {
		case SubDividend, SubCreditInterest, SubDebitInterest, SubBalanceAdjustment:
			r.Rows = append(r.Rows, row)
		}
	}
	// newest first
	for i, j := 0, len(r.Rows)-1; i < j; i, j = i+1, j-1 {
		r.Rows[i], r.Rows[j] = r.Rows[j], r.Rows[i]
	}
	return r, nil
}
