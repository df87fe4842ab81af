package sheet

import (
	"html/template"
	"io"
	"time"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Troy CSC Package Audit</title>
<style>
@page { margin: 0.75in; size: letter; }
* { -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; }
body { font-family: Arial, sans-serif; margin: 0; color: black; line-height: 1.3; }
.header { text-align: center; margin-bottom: 30px; border-bottom: 3px solid #990000; padding-bottom: 15px; }
.title { font-size: 24px; font-weight: bold; color: #990000; margin: 0 0 8px 0; letter-spacing: 1px; }
.subtitle { font-size: 14px; color: #666; margin: 0 0 15px 0; }
.info-section { display: flex; justify-content: space-between; margin-bottom: 25px; padding: 15px; background-color: #f8f9fa; border: 1px solid #dee2e6; }
.info-label { font-size: 11px; font-weight: bold; color: #495057; margin-bottom: 5px; }
.signature-line { border-bottom: 1px solid #333; min-height: 25px; width: 200px; }
table { width: 100%; border-collapse: collapse; font-size: 9px; margin-top: 10px; }
th { border: 1px solid #333; padding: 6px 4px; text-align: left; font-size: 10px; background-color: #f0f0f0; }
td { border: 1px solid #666; padding: 4px; font-size: 8px; }
td.center { text-align: center; }
tr:nth-child(even) { background-color: #f9f9f9; }
.stats { display: flex; justify-content: center; gap: 30px; margin-top: 15px; }
.stat-number { font-size: 18px; font-weight: bold; color: #990000; text-align: center; }
.stat-label { font-size: 10px; color: #666; }
</style>
</head>
<body>
<div class="header">
<h1 class="title">TROY CSC PACKAGE AUDIT</h1>
<p class="subtitle">Processed Package Inventory Report</p>
<p class="date-time">{{.Date}} at {{.Time}}</p>
</div>
<div class="info-section">
<div class="info-item"><div class="info-label">Audited By:</div><div class="signature-line"></div></div>
<div class="info-item"><div class="info-label">Total Records:</div><div class="info-value">{{.Summary.Total}}</div></div>
<div class="info-item"><div class="info-label">Date Processed:</div><div class="info-value">{{.ShortDate}}</div></div>
</div>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range $i, $c := .}}<td{{if or (eq $i 1) (eq $i 2)}} class="center"{{end}}>{{$c}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
<div class="footer">
<div class="stats">
<div class="stat-item"><div class="stat-number">{{.Summary.BinItems}}</div><div class="stat-label">Bin Items</div></div>
<div class="stat-item"><div class="stat-number">{{.Summary.OtherItems}}</div><div class="stat-label">Other Items</div></div>
<div class="stat-item"><div class="stat-number">{{.Summary.Total}}</div><div class="stat-label">Total Items</div></div>
</div>
<p>Generated by Troy CSC Package Auditor | {{.Generated}}</p>
</div>
</body>
</html>
`))

type reportView struct {
	Date      string
	Time      string
	ShortDate string
	Generated string
	Headers   []string
	Rows      [][]string
	Summary   Summary
}

// RenderReport writes a printable HTML audit of a normalized table. Every data
// row is rendered with exactly as many cells as the header, invisible
// characters removed.
func RenderReport(w io.Writer, rows [][]string, at time.Time) error {
	view := reportView{
		Date:      at.Format("Monday, January 2, 2006"),
		Time:      at.Format("03:04 PM"),
		ShortDate: at.Format("1/2/2006"),
		Generated: at.Format("1/2/2006, 3:04:05 PM"),
		Summary:   Summarize(rows),
	}

	if len(rows) > 0 {
		view.Headers = rows[0]
		for _, row := range rows[1:] {
			cells := make([]string, len(view.Headers))
			for i := range cells {
				cells[i] = StripInvisible(cell(row, i))
			}
			view.Rows = append(view.Rows, cells)
		}
	}

	return reportTmpl.Execute(w, view)
}
