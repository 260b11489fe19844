package dev

import (
	"encoding/json"
	"strings"
)

// Script returns the inline script that connects a page to the reload
// channel mounted under basePath.
func Script(basePath string) string {
	endpoint, _ := json.Marshal(strings.TrimSuffix(basePath, "/") + ReloadPath)
	return strings.Replace(clientScript, "ENDPOINT", string(endpoint), 1)
}

const clientScript = `<script>
(function() {
    'use strict';

    var delay = 1000;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + ENDPOINT);

        ws.onopen = function() {
            delay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            if (msg.type === 'css') {
                document.querySelectorAll('link[rel="stylesheet"]').forEach(function(link) {
                    var url = new URL(link.href);
                    url.searchParams.set('_reload', Date.now());
                    link.href = url.toString();
                });
                return;
            }
            location.reload();
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, 30000);
                connect();
            }, delay);
        };
    }

    connect();
})();
</script>
`
