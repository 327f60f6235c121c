// internal/pkg/report/template.go
package report

// salesReportTemplate is the HTML layout for the sales summary PDF
const salesReportTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
  h1 { font-size: 22px; margin-bottom: 0; }
  .meta { color: #777; font-size: 12px; margin-bottom: 24px; }
  .company { margin-bottom: 24px; font-size: 12px; }
  .kpis { width: 100%; border-collapse: collapse; margin-bottom: 32px; }
  .kpis td { border: 1px solid #ddd; padding: 10px 14px; }
  .kpis .label { color: #777; font-size: 11px; text-transform: uppercase; }
  .kpis .value { font-size: 18px; font-weight: bold; }
  table.products { width: 100%; border-collapse: collapse; font-size: 12px; }
  table.products th { background: #f4f4f4; text-align: left; padding: 8px; border-bottom: 2px solid #ccc; }
  table.products td { padding: 8px; border-bottom: 1px solid #eee; }
  table.products td.num { text-align: right; }
</style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">Periodo: {{.Period}} &middot; Generado: {{.GeneratedAt}}</div>

  <div class="company">
    <strong>{{.Company.Name}}</strong><br>
    {{if .Company.Address}}{{.Company.Address}}<br>{{end}}
    {{if .Company.Email}}{{.Company.Email}}<br>{{end}}
    {{if .Company.Website}}{{.Company.Website}}{{end}}
  </div>

  <table class="kpis">
    <tr>
      <td><div class="label">Ventas</div><div class="value">{{printf "%.2f" .KPIs.Revenue}}</div></td>
      <td><div class="label">Crecimiento</div><div class="value">{{printf "%.2f" .KPIs.Growth}}%</div></td>
      <td><div class="label">Ticket promedio</div><div class="value">{{printf "%.2f" .KPIs.AverageTicket}}</div></td>
    </tr>
    <tr>
      <td><div class="label">Productos vendidos</div><div class="value">{{.KPIs.UnitsSold}}</div></td>
      <td><div class="label">Clientes &uacute;nicos</div><div class="value">{{.KPIs.UniqueCustomers}}</div></td>
      <td></td>
    </tr>
  </table>

  <h2>Top productos</h2>
  <table class="products">
    <tr>
      <th>Producto</th>
      <th>Categor&iacute;a</th>
      <th>Cantidad</th>
      <th>Ingreso</th>
    </tr>
    {{range .TopProducts}}
    <tr>
      <td>{{.Product}}</td>
      <td>{{if .Category}}{{.Category}}{{end}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{printf "%.2f" .Revenue}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>`
