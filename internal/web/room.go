package web

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Room renders the play view. All state comes from polling the API; the
// page never runs its own countdown.
func Room(code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Room `)
		_, _ = io.WriteString(w, templ.EscapeString(code))
		_, _ = io.WriteString(w, ` - Name That Tune</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Room `)
		_, _ = io.WriteString(w, templ.EscapeString(code))
		_, _ = io.WriteString(w, `</span>
        <h1 id="roomName"></h1>
        <p id="roomStatus"></p>
      </header>

      <section class="panel" id="searchPanel">
        <h2>Pick your song</h2>
        <form id="searchForm" class="join-form">
          <input name="q" placeholder="Search for a song" autocomplete="off" required/>
          <button type="submit" class="secondary">Search</button>
        </form>
        <ul id="searchResults" class="track-list"></ul>
      </section>

      <section class="panel" id="playPanel" hidden>
        <h2>Round <span id="roundNumber"></span></h2>
        <div class="timer" id="timer"></div>
        <audio id="preview" controls></audio>
        <form id="guessForm" class="join-form">
          <select name="guessType">
            <option value="TITLE">Title</option>
            <option value="ARTIST">Artist</option>
          </select>
          <input name="guess" placeholder="Your guess" autocomplete="off" required/>
          <button type="submit" class="primary">Guess</button>
        </form>
        <ul id="guessFeed" class="guess-feed"></ul>
      </section>

      <section class="panel">
        <h2>Scores</h2>
        <ul id="scoreboard" class="scoreboard"></ul>
        <div class="host-controls" id="hostControls" hidden>
          <button id="startGame" class="primary">Start game</button>
          <button id="startRound" class="secondary">Start round</button>
          <button id="nextRound" class="secondary">Next</button>
        </div>
      </section>
    </main>

    <script>
      const code = `)
		_, _ = io.WriteString(w, strconv.Quote(code))
		_, _ = io.WriteString(w, `;
      let gameId = null;
      let viewerId = null;

      async function api(path, options) {
        const res = await fetch(path, options);
        const data = await res.json().catch(() => ({}));
        if (!res.ok) throw new Error(data.error || res.statusText);
        return data;
      }

      async function refreshRoom() {
        const room = await api("/api/rooms/" + code);
        gameId = room.currentGameId;
        document.getElementById("roomName").textContent = room.name;
        document.getElementById("roomStatus").textContent = room.status;
      }

      async function refreshState() {
        if (!gameId) return;
        const state = await api("/api/games/" + gameId + "/state");
        viewerId = state.viewerUserId;
        const playing = state.status === "PLAYING";
        document.getElementById("playPanel").hidden = !playing && state.status !== "FINISHED";
        document.getElementById("searchPanel").hidden = state.status !== "SELECTING";
        document.getElementById("roundNumber").textContent =
          (state.currentSongIndex + 1) + " / " + state.totalSongs;
        document.getElementById("timer").textContent =
          state.isPlaying ? state.timeRemaining + "s" : "waiting";
        const audio = document.getElementById("preview");
        if (state.song && state.song.previewUrl && audio.src !== state.song.previewUrl) {
          audio.src = state.song.previewUrl;
        }
        const board = document.getElementById("scoreboard");
        board.innerHTML = "";
        for (const row of state.scores) {
          const li = document.createElement("li");
          li.textContent = row.displayName + ": " + row.score;
          board.appendChild(li);
        }
        document.getElementById("hostControls").hidden = state.hostUserId !== viewerId;
        if (playing) refreshGuesses();
      }

      async function refreshGuesses() {
        const data = await api("/api/games/" + gameId + "/guesses");
        const feed = document.getElementById("guessFeed");
        feed.innerHTML = "";
        for (const g of data.guesses) {
          const li = document.createElement("li");
          li.textContent = g.userName + " (" + g.guessType + "): " + g.guess + (g.isCorrect ? " *" : "");
          feed.appendChild(li);
        }
      }

      document.getElementById("searchForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const q = event.target.elements.q.value.trim();
        const data = await api("/api/search?q=" + encodeURIComponent(q));
        const list = document.getElementById("searchResults");
        list.innerHTML = "";
        for (const track of data.tracks) {
          const li = document.createElement("li");
          const btn = document.createElement("button");
          btn.textContent = track.title + " - " + track.artist;
          btn.addEventListener("click", () =>
            api("/api/games/" + gameId + "/selections", {
              method: "POST",
              headers: { "Content-Type": "application/json" },
              body: JSON.stringify({ trackId: track.id })
            }));
          li.appendChild(btn);
          list.appendChild(li);
        }
      });

      document.getElementById("guessForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const form = event.target;
        await api("/api/games/" + gameId + "/guess", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            guessType: form.elements.guessType.value,
            guess: form.elements.guess.value.trim()
          })
        }).catch(() => {});
        form.elements.guess.value = "";
        refreshGuesses();
      });

      document.getElementById("startGame").addEventListener("click", () =>
        api("/api/games/" + gameId + "/start", { method: "POST" }).catch(() => {}));
      document.getElementById("startRound").addEventListener("click", () =>
        api("/api/games/" + gameId + "/start-round", { method: "POST" }).catch(() => {}));
      document.getElementById("nextRound").addEventListener("click", () =>
        api("/api/games/" + gameId + "/next", { method: "POST" }).catch(() => {}));

      let pollFailures = 0;
      function poll() {
        refreshRoom().then(refreshState).then(() => {
          pollFailures = 0;
        }).catch(() => {
          pollFailures++;
          document.getElementById("roomStatus").textContent =
            pollFailures >= 3 ? "disconnected" : "reconnecting...";
        });
      }
      poll();
      setInterval(poll, 2000);
    </script>
  </body>
</html>`)
		return nil
	})
}
