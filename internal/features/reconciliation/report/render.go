package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/xuri/excelize/v2"
)

var htmlTemplate = template.Must(template.New("summary").Parse(`<html><body>
<h2>{{.Subject}}</h2>
<table id="totals">
<tr><td># of Orders Processed</td><td class="processed">{{.Totals.Processed}}</td></tr>
<tr><td># of Orders Delivered</td><td class="delivered">{{.Totals.Delivered}}</td></tr>
<tr><td># of Problem Orders</td><td class="problem">{{.Totals.Problem}}</td></tr>
<tr><td># of Alerts</td><td class="alerts">{{.Totals.Alerts}}</td></tr>
<tr><td># of Orders with Tracking Errors</td><td class="errors">{{.Totals.TrackingErrors}}</td></tr>
<tr><td># of Orders Skipped</td><td class="skipped">{{.Totals.Skipped}}</td></tr>
</table>
{{range .Sections}}{{if .Groups}}
<div class="section" data-bucket="{{.Bucket}}">
<h3>{{.Bucket}}</h3>
{{range .Groups}}<div class="group" data-code="{{.Code}}">
<p><u>{{.Code}}</u> <b>{{len .Orders}}</b></p>
<ul>{{range .Orders}}
<li class="order" data-order="{{.OrderNumber}}">#{{.OrderNumber}}: {{.CustomerName}} ({{.CustomerEmail}}) {{.TrackingNumber}}</li>{{end}}
</ul>
</div>
{{end}}</div>
{{end}}{{end}}
{{if .Errors}}<div id="tracking-errors">
<p><u><b>Ran into tracking errors with the following order(s):</b></u></p>
<ul>{{range .Errors}}
<li class="error" data-order="{{.OrderNumber}}">#{{.OrderNumber}} {{.CustomerName}}: {{.TrackingNumber}}</li>{{end}}
</ul>
</div>{{end}}
</body></html>
`))

// HTML renders the summary as the email body.
func HTML(s *Summary) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}
	return buf.String(), nil
}

// Text renders the summary as Slack mrkdwn.
func Text(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", s.Subject)
	fmt.Fprintf(&b, "Processed: %d | Delivered: %d | Problem: %d | Alerts: %d | Tracking errors: %d | Skipped: %d\n",
		s.Totals.Processed, s.Totals.Delivered, s.Totals.Problem, s.Totals.Alerts, s.Totals.TrackingErrors, s.Totals.Skipped)

	for _, sec := range s.Sections {
		if len(sec.Groups) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n*%s*\n", sec.Bucket)
		for _, g := range sec.Groups {
			fmt.Fprintf(&b, "• %s (%d): ", g.Code, len(g.Orders))
			orders := make([]string, len(g.Orders))
			for i, o := range g.Orders {
				orders[i] = "#" + o.OrderNumber
			}
			b.WriteString(strings.Join(orders, ", "))
			b.WriteString("\n")
		}
	}

	if len(s.Errors) > 0 {
		b.WriteString("\n*Tracking errors*\n")
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "• #%s %s: %s\n", e.OrderNumber, e.CustomerName, e.TrackingNumber)
		}
	}
	return b.String()
}

const (
	ordersSheet = "Orders"
	errorsSheet = "Tracking Errors"
)

// XLSX renders the grouped order lists and tracking errors as a workbook.
func XLSX(s *Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(errorsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][]any{{"Bucket", "Code", "Order", "Customer", "Email", "Tracking Number", "Carrier", "Classification"}}
	for _, sec := range s.Sections {
		for _, g := range sec.Groups {
			for _, o := range g.Orders {
				rows = append(rows, []any{string(sec.Bucket), g.Code, o.OrderNumber, o.CustomerName,
					o.CustomerEmail, o.TrackingNumber, o.CarrierName, o.Classification})
			}
		}
	}
	if err := writeRows(f, ordersSheet, rows); err != nil {
		return nil, err
	}

	rows = [][]any{{"Order", "Customer", "Tracking Number", "Reason"}}
	for _, e := range s.Errors {
		rows = append(rows, []any{e.OrderNumber, e.CustomerName, e.TrackingNumber, e.Reason})
	}
	if err := writeRows(f, errorsSheet, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
