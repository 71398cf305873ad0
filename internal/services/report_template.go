package services

import "html/template"

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"xof":  formatXOF,
	"date": frenchDate,
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.AppName}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #1f2933; }
header { display: flex; align-items: center; gap: 16px; border-bottom: 2px solid #1f6f43; padding-bottom: 12px; }
header img { height: 56px; }
h1 { font-size: 22px; margin: 0; }
.subtitle { color: #52606d; margin: 4px 0 0; }
.stats { display: flex; gap: 16px; margin: 24px 0; }
.card { flex: 1; border: 1px solid #d9e2ec; border-radius: 6px; padding: 12px; }
.card .label { font-size: 12px; color: #52606d; text-transform: uppercase; }
.card .value { font-size: 20px; font-weight: bold; margin-top: 4px; }
.entree { color: #1f6f43; }
.sortie { color: #b42318; }
table { width: 100%; border-collapse: collapse; font-size: 13px; }
th, td { border: 1px solid #d9e2ec; padding: 6px 8px; text-align: left; }
th { background: #f0f4f8; }
td.montant { text-align: right; white-space: nowrap; }
footer { margin-top: 32px; font-size: 11px; color: #7b8794; text-align: center; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<header>
{{if .LogoURL}}<img src="{{.LogoURL}}" alt="logo">{{end}}
<div>
<h1>{{.Title}}</h1>
<p class="subtitle">{{.AppName}} - du {{date .From}} au {{date .To}}</p>
</div>
</header>

<section class="stats">
<div class="card"><div class="label">Total Entrées</div><div class="value entree">{{xof .Aggregate.Entrees}}</div></div>
<div class="card"><div class="label">Total Sorties</div><div class="value sortie">{{xof .Aggregate.Sorties}}</div></div>
<div class="card"><div class="label">Solde</div><div class="value">{{xof .Aggregate.Solde}}</div></div>
</section>

<table>
<thead>
<tr><th>Date</th><th>Type</th><th>Catégorie</th><th>Libellé</th><th>Montant</th></tr>
</thead>
<tbody>
{{range .Transactions}}<tr>
<td>{{date .DateTransaction}}</td>
<td class="{{.Type}}">{{.Type.Label}}</td>
<td>{{.Categorie}}</td>
<td>{{.Libelle}}</td>
<td class="montant">{{xof .Montant}}</td>
</tr>
{{end}}</tbody>
</table>

<footer>
<p>Généré le {{.GeneratedAt}}</p>
<p>{{.AppName}} - Système de gestion financière associative</p>
</footer>
</body>
</html>
`))
