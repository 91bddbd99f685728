package web

// indexHTML is the single-page dashboard served at /. It renders live data
// from the JSON API; no build step, no static assets.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>StockSentry</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f5f6fa; color: #2d3436; }
header { background: #2d3436; color: #fff; padding: 16px 24px; }
h1 { margin: 0; font-size: 20px; }
main { max-width: 960px; margin: 24px auto; padding: 0 16px; }
.cards { display: flex; gap: 16px; flex-wrap: wrap; }
.card { background: #fff; border-radius: 8px; padding: 16px 24px; flex: 1; min-width: 140px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.card .num { font-size: 28px; font-weight: 600; }
.card .label { color: #636e72; font-size: 13px; }
section { margin-top: 32px; }
h2 { font-size: 16px; }
table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
th, td { text-align: left; padding: 10px 14px; border-bottom: 1px solid #f0f0f0; font-size: 14px; }
th { background: #fafafa; color: #636e72; font-weight: 500; }
button { background: #0984e3; color: #fff; border: none; border-radius: 6px; padding: 10px 18px; cursor: pointer; font-size: 14px; }
button:hover { background: #0870c0; }
pre { white-space: pre-wrap; font-size: 12px; margin: 0; }
</style>
</head>
<body>
<header><h1>StockSentry dashboard</h1></header>
<main>
  <div class="cards">
    <div class="card"><div class="num" id="stat-total">-</div><div class="label">Total strategies</div></div>
    <div class="card"><div class="num" id="stat-active">-</div><div class="label">Active</div></div>
    <div class="card"><div class="num" id="stat-triggered">-</div><div class="label">Triggered</div></div>
    <div class="card"><div class="num" id="stat-symbols">-</div><div class="label">Symbols watched</div></div>
  </div>

  <section>
    <h2>Active strategies</h2>
    <table>
      <thead><tr><th>Name</th><th>Symbol</th><th>Condition</th><th>Target</th><th>Current</th><th>Action</th></tr></thead>
      <tbody id="strategies"></tbody>
    </table>
  </section>

  <section>
    <h2>Recent notifications</h2>
    <table>
      <thead><tr><th>Strategy</th><th>Message</th><th>Sent at</th></tr></thead>
      <tbody id="notifications"></tbody>
    </table>
  </section>

  <section>
    <button onclick="triggerCheck()">Run check now</button>
    <span id="check-result"></span>
  </section>
</main>
<script>
async function loadStats() {
  const s = await (await fetch('/api/stats')).json();
  document.getElementById('stat-total').textContent = s.total;
  document.getElementById('stat-active').textContent = s.active;
  document.getElementById('stat-triggered').textContent = s.triggered;
  document.getElementById('stat-symbols').textContent = s.symbols;
}
async function loadStrategies() {
  const list = await (await fetch('/api/strategies')).json();
  const tbody = document.getElementById('strategies');
  tbody.innerHTML = '';
  (list || []).forEach(s => {
    const cur = s.quote ? s.quote.currency + ' ' + s.quote.price.toFixed(2) : 'n/a';
    const row = document.createElement('tr');
    row.innerHTML = '<td>' + s.name + '</td><td>' + s.symbol + '</td><td>' + s.condition_type +
      '</td><td>' + s.target_price.toFixed(2) + '</td><td>' + cur + '</td><td>' + s.action + '</td>';
    tbody.appendChild(row);
  });
}
async function loadNotifications() {
  const list = await (await fetch('/api/notifications')).json();
  const tbody = document.getElementById('notifications');
  tbody.innerHTML = '';
  (list || []).forEach(n => {
    const msg = n.message.length > 120 ? n.message.slice(0, 120) + '…' : n.message;
    const row = document.createElement('tr');
    row.innerHTML = '<td>' + (n.strategy_name || '-') + '</td><td><pre>' + msg + '</pre></td><td>' + n.sent_at + '</td>';
    tbody.appendChild(row);
  });
}
async function triggerCheck() {
  const out = document.getElementById('check-result');
  out.textContent = ' running…';
  const res = await (await fetch('/api/trigger-check', {method: 'POST'})).json();
  out.textContent = ' triggered ' + res.triggered_count + ' strategies';
  refresh();
}
function refresh() { loadStats(); loadStrategies(); loadNotifications(); }
refresh();
setInterval(refresh, 30000);
</script>
</body>
</html>
`
