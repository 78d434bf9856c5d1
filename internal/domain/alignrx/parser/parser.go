// Package parser reads AlignRx central-pay remittance spreadsheets. The
// report layout is positional rather than tabular, so the parser walks the
// rows with a small state machine instead of mapping columns.
package parser

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/remit-engine/internal/domain/alignrx"
)

// State is the parser's position within the report layout.
type State int

const (
	StateScanning State = iota
	StateFindCentralPay
	StateParseCentralPay
	StateFindTotal
	StateDone
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "SCANNING"
	case StateFindCentralPay:
		return "FIND_CENTRAL_PAY"
	case StateParseCentralPay:
		return "PARSE_CENTRAL_PAY"
	case StateFindTotal:
		return "FIND_TOTAL"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ValidationError reports a structurally unusable spreadsheet: the walk ended
// without populating every required field. State records how far the machine
// got, which is usually enough to see which section of the layout changed.
type ValidationError struct {
	SourceFile string
	State      State
	Missing    []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("report %s missing required fields %v (parser state %s)",
		e.SourceFile, e.Missing, e.State)
}

// paymentLine matches a central-pay detail cell, e.g. "Acme Corp (Check # - 9911)".
var paymentLine = regexp.MustCompile(`^(.*?) \(Check # - (.*?)\)`)

// knownDestinations are the pharmacy endpoints AlignRx remits to. The header
// row names exactly one of them.
var knownDestinations = []string{
	"CAMPUS HEALTH PHARMACY",
	"STUDENT STORES PHARMACY",
}

// Parser walks AlignRx spreadsheets into reports.
type Parser struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse reads one spreadsheet and returns its report. The walk tolerates
// malformed detail lines (logged and skipped) but returns a ValidationError
// when the report ends without a date, destination, or payment amount.
func (p *Parser) Parse(r io.Reader, sourceFile string) (*alignrx.Report, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", sourceFile, err)
	}
	defer wb.Close()

	sheet := "Sheet1"
	if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = wb.GetSheetName(0)
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, sourceFile, err)
	}

	report := &alignrx.Report{SourceFile: sourceFile}
	state := StateScanning
	for _, row := range rows {
		cells := cleanRow(row)
		if len(cells) == 0 {
			continue
		}
		state = p.step(state, cells, report)
		if state == StateDone {
			break
		}
	}

	if missing := report.MissingFields(); len(missing) > 0 {
		return nil, &ValidationError{SourceFile: sourceFile, State: state, Missing: missing}
	}
	return report, nil
}

func (p *Parser) step(state State, cells []string, report *alignrx.Report) State {
	rowStr := strings.Join(cells, " ")

	switch state {
	case StateScanning:
		dest := matchDestination(rowStr)
		if dest == "" || !strings.Contains(rowStr, "Pay Date:") {
			return StateScanning
		}
		report.Destination = dest
		if date, ok := findDate(cells); ok {
			report.Date = date
		} else {
			p.logger.Warn("header row has no parseable pay date",
				slog.String("file", report.SourceFile),
				slog.String("row", rowStr),
			)
		}
		return StateFindCentralPay

	case StateFindCentralPay:
		if strings.Contains(rowStr, "Central Pay") {
			return StateParseCentralPay
		}
		return StateFindCentralPay

	case StateParseCentralPay:
		if strings.Contains(cells[0], "Processing Fee") {
			if fee, ok := findAmount(cells[1:]); ok {
				report.ProcessingFee = &fee
			} else {
				p.logger.Warn("processing fee row has no parseable amount",
					slog.String("file", report.SourceFile),
					slog.String("row", rowStr),
				)
			}
			return StateFindTotal
		}
		if m := paymentLine.FindStringSubmatch(cells[0]); m != nil {
			amount, ok := findAmount(cells[1:])
			if !ok {
				p.logger.Warn("skipping payment line with no parseable amount",
					slog.String("file", report.SourceFile),
					slog.String("sender", m[1]),
				)
				return StateParseCentralPay
			}
			report.CentralPayments = append(report.CentralPayments, alignrx.CentralPayment{
				Sender:   m[1],
				CheckNum: m[2],
				Amount:   amount,
			})
		}
		return StateParseCentralPay

	case StateFindTotal:
		if !strings.Contains(rowStr, "Payment Amount") {
			return StateFindTotal
		}
		if total, ok := findAmount(cells); ok {
			report.PaymentAmount = &total
		} else {
			p.logger.Warn("payment amount row has no parseable amount",
				slog.String("file", report.SourceFile),
				slog.String("row", rowStr),
			)
		}
		return StateDone
	}
	return state
}

// cleanRow trims every cell and drops the empty ones, so positional checks
// see the visible content regardless of spreadsheet padding columns.
func cleanRow(row []string) []string {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

func matchDestination(rowStr string) string {
	for _, d := range knownDestinations {
		if strings.Contains(rowStr, d) {
			return d
		}
	}
	return ""
}

// findDate returns the first cell parseable as MM/DD/YYYY, normalized to
// YYYY-MM-DD.
func findDate(cells []string) (string, bool) {
	for _, c := range cells {
		if t, err := time.Parse("01/02/2006", strings.TrimSpace(strings.TrimPrefix(c, "Pay Date:"))); err == nil {
			return t.Format("2006-01-02"), true
		}
		// Some exports put the label and value in one cell.
		fields := strings.Fields(c)
		if n := len(fields); n > 0 {
			if t, err := time.Parse("01/02/2006", fields[n-1]); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
	}
	return "", false
}

// findAmount returns the last cell parseable as a monetary amount.
func findAmount(cells []string) (decimal.Decimal, bool) {
	for i := len(cells) - 1; i >= 0; i-- {
		s := strings.NewReplacer("$", "", ",", "").Replace(cells[i])
		if amount, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
			return amount, true
		}
	}
	return decimal.Decimal{}, false
}
