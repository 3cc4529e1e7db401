package dashboard

const pagesHTML = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>HeadlineGoat</title>
    <link rel="manifest" href="/manifest.json">
    <meta name="theme-color" content="#38bdf8">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Inter', -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; }
        a { color: inherit; text-decoration: none; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1.5rem 2rem; border-bottom: 1px solid #475569; display: flex; justify-content: space-between; align-items: center; }
        .header h1 { font-size: 1.5rem; background: linear-gradient(135deg, #38bdf8, #818cf8); background-clip: text; -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 1rem; padding: 2rem; }
        .card { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.5rem; transition: transform 0.2s; }
        .card:hover { transform: translateY(-2px); }
        .outlet { border-left: 6px solid; font-size: 1.25rem; font-weight: 700; }
        .cats { display: flex; flex-wrap: wrap; gap: 0.5rem; padding: 0 2rem; }
        .cats button { background: #1e293b; color: #e2e8f0; border: 1px solid #475569; border-radius: 9999px; padding: 0.5rem 1rem; cursor: pointer; }
        .cats button:disabled { opacity: 0.5; cursor: wait; }
        .result { margin: 2rem; }
        .result img { max-width: 100%; border-radius: 8px; margin-top: 1rem; }
        .result .tweet { font-size: 1.1rem; line-height: 1.5; white-space: pre-wrap; }
        .result .meta { color: #94a3b8; font-size: 0.875rem; margin-top: 0.75rem; }
        .error { color: #f87171; }
        .stats { display: flex; gap: 1.5rem; padding: 1rem 2rem; color: #64748b; font-size: 0.75rem; }
        .stats b { color: #94a3b8; }
    </style>
</head>
<body>
    <div class="header">
        <h1><a href="/">HeadlineGoat</a></h1>
        <span class="stats" id="stats"></span>
    </div>
{{end}}

{{define "foot"}}
    <script>
        async function refresh() {
            try {
                const d = await (await fetch('/api/stats')).json();
                document.getElementById('stats').innerHTML =
                    '<span>scrapes <b>' + (d.scrapes_total || 0) + '</b></span>' +
                    '<span>failed <b>' + (d.scrapes_failed || 0) + '</b></span>' +
                    '<span>downloaded <b>' + (d.bytes_human || '0 B') + '</b></span>' +
                    '<span>up <b>' + d.uptime + '</b></span>';
            } catch (e) {}
        }
        setInterval(refresh, 5000);
        refresh();
        if ('serviceWorker' in navigator) {
            navigator.serviceWorker.register('/sw.js').catch(() => {});
        }
    </script>
</body>
</html>
{{end}}

{{define "home"}}{{template "head"}}
    <div class="grid">
        {{range .Outlets}}<a class="card outlet" href="/source/{{.ID}}" style="border-left-color: {{.Color}}">{{.Name}}</a>
        {{end}}
    </div>
{{template "foot"}}{{end}}

{{define "source"}}{{template "head"}}
    <div class="grid"><div class="card outlet" style="border-left-color: {{.Outlet.Color}}">{{.Outlet.Name}}</div></div>
    <div class="cats">
        {{range .Categories}}<button data-category="{{.Value}}">{{.Label}}</button>
        {{end}}
    </div>
    <div class="result card" id="result" hidden></div>
    <script>
        const sourceID = {{.Outlet.ID}};
        const result = document.getElementById('result');
        document.querySelectorAll('.cats button').forEach(btn => btn.addEventListener('click', async () => {
            const buttons = document.querySelectorAll('.cats button');
            buttons.forEach(b => b.disabled = true);
            result.hidden = false;
            result.textContent = 'Fetching the top story...';
            try {
                const r = await fetch('/api/generate', {
                    method: 'POST',
                    headers: {'Content-Type': 'application/json'},
                    body: JSON.stringify({source_id: sourceID, category: btn.dataset.category}),
                });
                const d = await r.json();
                result.innerHTML = '';
                if (!d.success) {
                    const p = document.createElement('p');
                    p.className = 'error';
                    p.textContent = d.error || 'Request failed';
                    result.appendChild(p);
                    return;
                }
                const tweet = document.createElement('p');
                tweet.className = 'tweet';
                tweet.textContent = d.tweet_text;
                result.appendChild(tweet);
                if (d.image_url) {
                    const img = document.createElement('img');
                    img.src = d.image_url;
                    img.alt = d.headline;
                    result.appendChild(img);
                }
                const meta = document.createElement('p');
                meta.className = 'meta';
                meta.textContent = d.source_name + ' · ' + d.category + (d.article_url ? ' · ' + d.article_url : '');
                result.appendChild(meta);
            } catch (e) {
                result.textContent = 'Network error';
            } finally {
                buttons.forEach(b => b.disabled = false);
            }
        }));
    </script>
{{template "foot"}}{{end}}

{{define "error"}}{{template "head"}}
    <div class="result card"><p class="error">{{.Message}}</p><p class="meta"><a href="/">Back to outlets</a></p></div>
{{template "foot"}}{{end}}
`

// serviceWorkerJS caches the shell pages and serves them when offline.
// API calls always go to the network.
const serviceWorkerJS = `const CACHE_NAME = 'headlinegoat-v1';
const shell = ['/', '/manifest.json'];

self.addEventListener('install', event => {
    event.waitUntil(caches.open(CACHE_NAME).then(cache => cache.addAll(shell)));
});

self.addEventListener('fetch', event => {
    if (event.request.method !== 'GET' || new URL(event.request.url).pathname.startsWith('/api/')) {
        return;
    }
    event.respondWith(fetch(event.request).catch(() => caches.match(event.request)));
});
`
