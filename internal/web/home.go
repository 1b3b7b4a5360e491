package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Home is the landing page. It follows the live leaderboard feed so a
// projector can stay on it for the whole session.
func Home() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Material Mastery</title>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <h1>Welcome to Material Mastery!</h1>
        <p>Draw a challenge, pick your materials, and build the best design.</p>
      </header>

      <section class="panel">
        <h2>Leaderboard</h2>
        <ol id="leaderboard"></ol>
        <p id="liveStatus" class="result">Connecting...</p>
      </section>
    </main>

    <script>
      const list = document.getElementById("leaderboard");
      const status = document.getElementById("liveStatus");

      const render = (standings) => {
        list.replaceChildren();
        for (const entry of standings) {
          const item = document.createElement("li");
          item.textContent = entry.team_name + ": " + entry.score;
          list.appendChild(item);
        }
      };

      const connect = () => {
        const scheme = location.protocol === "https:" ? "wss" : "ws";
        const socket = new WebSocket(scheme + "://" + location.host + "/ws/leaderboards");
        socket.onopen = () => { status.textContent = "Live"; };
        socket.onmessage = (event) => {
          const message = JSON.parse(event.data);
          if (message.type === "leaderboard") {
            render(message.leaderboard || []);
          }
        };
        socket.onclose = () => {
          status.textContent = "Reconnecting...";
          setTimeout(connect, 2000);
        };
      };
      connect();
    </script>
  </body>
</html>
`)
		return err
	})
}
