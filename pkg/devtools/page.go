package devtools

// inspectorPage lists the live op stream and polls the tree snapshot.
const inspectorPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>vmini inspector</title>
<style>
body { font: 13px monospace; margin: 0; display: flex; height: 100vh; }
#tree, #ops { flex: 1; overflow: auto; padding: 8px; }
#tree { border-right: 1px solid #ccc; white-space: pre-wrap; }
.move { color: #b60; } .remove { color: #c00; } .insert { color: #070; }
</style>
</head>
<body>
<div id="tree"></div>
<div id="ops"></div>
<script>
(function() {
    'use strict';

    var ops = document.getElementById('ops');
    var tree = document.getElementById('tree');

    function line(op) {
        var div = document.createElement('div');
        var kind = op.move ? 'move' : op.kind;
        div.className = kind;
        div.textContent = '#' + op.seq + ' ' + kind + ' ' + (op.node || '') + ' ' + (op.tag || op.key || op.text || '');
        ops.insertBefore(div, ops.firstChild);
    }

    function refresh() {
        fetch('/api/tree').then(function(r) { return r.json(); }).then(function(data) {
            tree.textContent = data.html || data.error || '';
        });
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');
        ws.onmessage = function(e) {
            var msg = JSON.parse(e.data);
            if (msg.type === 'hello') {
                (msg.recent || []).forEach(line);
            } else if (msg.type === 'op') {
                line(msg.op);
            }
            refresh();
        };
        ws.onclose = function() { setTimeout(connect, 1000); };
    }

    refresh();
    connect();
})();
</script>
</body>
</html>
`
