// Command az-genmoves plays random chess games and records every distinct
// UCI move string encountered into a file, for game/chess's ActionSpace to
// load later.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/notnil/chess"
)

var (
	numGames  = flag.Int("num_games", 10, "number of random games to play")
	movesPath = flag.String("path", "chess_moves.txt", "file to write discovered moves to")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	f, err := os.OpenFile(*movesPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < *numGames; i++ {
		g := chess.NewGame()
		for g.Outcome() == chess.NoOutcome {
			moves := g.ValidMoves()
			for _, m := range moves {
				s := m.String()
				if _, ok := seen[s]; ok {
					continue
				}
				seen[s] = struct{}{}
				if _, err := f.WriteString(s + "\n"); err != nil {
					log.Fatal(err)
				}
			}
			move := moves[rnd.Intn(len(moves))]
			if err := g.Move(move); err != nil {
				log.Fatal(err)
			}
		}
	}
	log.Printf("wrote %d distinct moves to %s", len(seen), *movesPath)
}
