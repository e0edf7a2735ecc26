// Command az-play pits a human at the terminal against an MCTS player on
// tic-tac-toe: read board, prompt, apply move, repeat.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/alphabeth/game"
	"github.com/alphabeth/game/tictactoe"
	"github.com/alphabeth/mcts"
	"github.com/alphabeth/model"
	"github.com/alphabeth/players"
)

var power = flag.Int("power", 200, "MCTS simulations per move for the computer player")

func main() {
	flag.Parse()
	log.SetFlags(0)

	cfg := mcts.Config{Power: *power, Exploration: 1.5, Dilution: 0, Temperature: 0}
	computer := players.NewMCTS[*tictactoe.State](model.NewRollout[*tictactoe.State](), cfg, 1)
	human := players.NewHuman[*tictactoe.State](readHumanMove)

	status, err := players.PVP[*tictactoe.State](context.Background(), human, computer, tictactoe.New(), printBoard)
	if err != nil {
		log.Fatalf("match error: %+v", err)
	}

	switch status {
	case game.WinPlayerA:
		fmt.Println("You win!")
	case game.WinPlayerB:
		fmt.Println("Computer wins.")
	default:
		fmt.Println("Draw.")
	}
}

func printBoard(before *tictactoe.State, mover game.Player, a game.ActionID) {
	fmt.Printf("move %d played by player %d\n", a, mover)
}

var stdin = bufio.NewScanner(os.Stdin)

func readHumanMove(ctx context.Context, s *tictactoe.State) (game.ActionID, error) {
	fmt.Print("your move (0-8): ")
	if !stdin.Scan() {
		return 0, stdin.Err()
	}
	n, err := strconv.Atoi(strings.TrimSpace(stdin.Text()))
	if err != nil {
		fmt.Println("not a number, try again")
		return -1, nil
	}
	return game.ActionID(n), nil
}
