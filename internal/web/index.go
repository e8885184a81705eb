package web

// Dashboard with a portfolio value chart plus per-account cards.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>coindash</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <link rel="preconnect" href="https://fonts.googleapis.com">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link href="https://fonts.googleapis.com/css2?family=Press+Start+2P&family=Space+Mono:wght@400;700&display=swap" rel="stylesheet">
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-mid:#4d4d4d;
      --ink-soft:#9c9c9c;
      --panel:#f6f6f6;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      min-height:100vh;
      display:flex;
      align-items:center;
      justify-content:center;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    #app {
      width:min(1200px, 96vw);
      background:var(--panel);
      border:3px solid var(--ink);
      padding:2rem;
      position:relative;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
      display:flex;
      flex-direction:column;
      gap:2rem;
    }
    header { display:flex; justify-content:space-between; align-items:flex-start; gap:1rem; }
    .eyebrow {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.55rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      margin:0;
    }
    .status {
      font-size:.65rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      border:2px solid var(--ink);
      padding:.4rem .9rem;
      background:#ffffff;
      box-shadow:4px 4px 0 rgba(0,0,0,.15);
    }
    .global-chart {
      width:100%;
      border:2px solid var(--ink);
      background:#fff;
    }
    .account-grid {
      display:grid;
      grid-template-columns:repeat(auto-fit, minmax(320px, 1fr));
      gap:1.5rem;
    }
    .account-card {
      border:3px solid var(--ink);
      padding:1.5rem;
      background:#fff;
      box-shadow:8px 8px 0 rgba(0,0,0,.15);
      display:flex;
      flex-direction:column;
      gap:1rem;
    }
    .account-name {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.75rem;
      letter-spacing:.08em;
      margin:0;
    }
    .total {
      border:3px solid var(--ink);
      padding:1.2rem;
      background:#fff;
    }
    .total .label {
      font-size:.62rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      color:var(--ink-mid);
    }
    .total .value {
      margin-top:.8rem;
      font-size:1.8rem;
      font-weight:700;
    }
    .split {
      display:flex;
      gap:.5rem;
      font-size:.6rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      color:var(--ink-mid);
    }
    .asset-table { width:100%; border-collapse:collapse; font-size:.65rem; }
    .asset-table th, .asset-table td {
      border-bottom:1px dashed var(--ink-soft);
      padding:.35rem .2rem;
      text-align:right;
    }
    .asset-table th:first-child, .asset-table td:first-child { text-align:left; }
    .pct-bar { background:var(--panel); height:6px; }
    .pct-bar span { display:block; background:var(--ink); height:6px; }
    .empty-state {
      border:2px dashed var(--ink-soft);
      padding:2rem;
      text-align:center;
      font-size:.8rem;
      letter-spacing:.12em;
      text-transform:uppercase;
      color:var(--ink-mid);
    }
  </style>
</head>
<body>
  <div id="app">
    <header>
      <p class="eyebrow">coindash portfolio</p>
      <div id="sse-status" class="status">Connecting…</div>
    </header>
    <section>
      <canvas id="globalChart" class="global-chart" height="280"></canvas>
    </section>
    <section id="accounts" class="account-grid">
      <div id="emptyState" class="empty-state">Waiting for valuations…</div>
    </section>
  </div>
<script>
const statusEl = document.getElementById('sse-status');
const accountContainer = document.getElementById('accounts');
const emptyState = document.getElementById('emptyState');
const accountViews = new Map();
const datasetByAccount = new Map();
const colorPalette = ['#111111', '#d7263d', '#1b9aaa', '#ff7f11', '#3c91e6'];
let colorIndex = 0;

Chart.defaults.font.family = "'Space Mono', 'JetBrains Mono', monospace";
Chart.defaults.font.size = 11;
Chart.defaults.color = '#111111';

const globalChart = new Chart(document.getElementById('globalChart').getContext('2d'), {
  type: 'line',
  data: { labels: [], datasets: [] },
  options: {
    animation: false,
    responsive: true,
    interaction: { intersect: false, mode: 'index' },
    plugins: { legend: { display: true, labels: { usePointStyle: true, boxWidth: 12 } } }
  }
});

const parseNum = (value) => {
  const num = parseFloat(value);
  return Number.isFinite(num) ? num : 0;
};

function ensureDataset(account){
  if(datasetByAccount.has(account)){
    return datasetByAccount.get(account);
  }
  const dataset = {
    label: account,
    data: new Array(globalChart.data.labels.length).fill(null),
    borderColor: colorPalette[colorIndex++ % colorPalette.length],
    borderWidth: 2,
    pointRadius: 0,
    tension: 0.15,
    fill: false
  };
  globalChart.data.datasets.push(dataset);
  datasetByAccount.set(account, dataset);
  return dataset;
}

function ensureAccountView(account, platform){
  if(accountViews.has(account)){
    return accountViews.get(account);
  }
  if(emptyState){ emptyState.remove(); }

  const card = document.createElement('article');
  card.className = 'account-card';

  const title = document.createElement('h2');
  title.className = 'account-name';
  title.textContent = account + (platform ? ' · ' + platform : '');

  const total = document.createElement('div');
  total.className = 'total';
  const label = document.createElement('div');
  label.className = 'label';
  label.textContent = 'Total value (USD)';
  const totalValue = document.createElement('div');
  totalValue.className = 'value';
  totalValue.textContent = '0.00';
  total.append(label, totalValue);

  const split = document.createElement('div');
  split.className = 'split';

  const table = document.createElement('table');
  table.className = 'asset-table';

  card.append(title, total, split, table);
  accountContainer.appendChild(card);

  const view = { totalEl: totalValue, splitEl: split, tableEl: table };
  accountViews.set(account, view);
  return view;
}

function renderAssets(view, payload){
  const total = parseNum(payload.totalValue);
  const rows = (payload.perAsset || [])
    .map((a) => ({
      currency: a.currency,
      qty: parseNum(a.total),
      value: parseNum(a.calculatedTotalValue)
    }))
    .sort((a, b) => b.value - a.value);

  let html = '<tr><th>Asset</th><th>Qty</th><th>Value</th><th style="width:30%">%</th></tr>';
  for(const row of rows){
    const pct = total > 0 ? (row.value / total * 100) : 0;
    html += '<tr><td>' + row.currency + '</td>' +
      '<td>' + row.qty + '</td>' +
      '<td>' + row.value.toFixed(2) + '</td>' +
      '<td><div class="pct-bar"><span style="width:' + pct.toFixed(1) + '%"></span></div></td></tr>';
  }
  view.tableEl.innerHTML = html;
}

function handlePayload(payload){
  const account = payload.account || '—';
  const view = ensureAccountView(account, payload.platform);

  view.totalEl.textContent = parseNum(payload.totalValue).toFixed(2);
  view.splitEl.textContent = 'available ' + parseNum(payload.availableValue).toFixed(2) +
    ' / frozen ' + parseNum(payload.frozenValue).toFixed(2);
  renderAssets(view, payload);

  const ts = payload.ts ? new Date(payload.ts) : new Date();
  globalChart.data.labels.push(ts.toLocaleTimeString([], { hour12:false }));
  globalChart.data.datasets.forEach((dataset) => {
    dataset.data.push(dataset.data.length ? dataset.data[dataset.data.length - 1] : null);
  });
  if(globalChart.data.labels.length > 5000){
    globalChart.data.labels.shift();
    globalChart.data.datasets.forEach((dataset) => dataset.data.shift());
  }
  const dataset = ensureDataset(account);
  dataset.data[dataset.data.length - 1] = parseNum(payload.totalValue);
  globalChart.update('none');
}

function connectSSE(){
  const source = new EventSource('/valuations/stream');
  statusEl.textContent = 'Status: receiving data';
  source.addEventListener('valuation', (event) => {
    try{
      handlePayload(JSON.parse(event.data));
    }catch(err){
      console.error('payload parse', err);
    }
  });
  source.addEventListener('error', () => {
    statusEl.textContent = 'Reconnecting…';
    source.close();
    setTimeout(connectSSE, 2000);
  });
}

connectSSE();
</script>
</body>
</html>`
