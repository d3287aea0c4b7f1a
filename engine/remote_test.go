package engine

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sternhalma/agent"
	"sternhalma/communication"
	"sternhalma/game"
)

func frame(t *testing.T, conn net.Conn, msg communication.ServerMessage) {
	t.Helper()
	payload, err := communication.EncodeServer(msg)
	require.NoError(t, err)
	require.NoError(t, communication.WriteFrame(conn, payload))
}

func readChoice(t *testing.T, conn net.Conn) communication.Choice {
	t.Helper()
	payload, err := communication.ReadFrame(conn)
	require.NoError(t, err)
	msg, err := communication.DecodeClient(payload)
	require.NoError(t, err)
	return msg.(communication.Choice)
}

func TestRemoteEngineRun(t *testing.T) {
	cfg := game.DefaultConfig()
	path := filepath.Join(t.TempDir(), "game.sock")
	listener, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer listener.Close()

	// Scripted server: assign seat 0, offer the opening legal moves, echo the
	// chosen move back as an announcement, then finish the game.
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		state, err := game.NewGameState(cfg)
		if err != nil {
			return
		}
		moves := state.LegalMoves()

		frame(t, conn, communication.Assign{Player: 0})
		frame(t, conn, communication.Turn{Movements: moves})

		choice := readChoice(t, conn)
		frame(t, conn, communication.Movement{Player: 0, Move: moves[choice.MovementIndex]})
		frame(t, conn, communication.GameFinished{
			Result: communication.GameResult{Winner: 0, TotalTurns: 1},
		})
	}()

	client := communication.NewClient(path)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	e := NewRemoteEngine(client, cfg, func(seat game.Seat) agent.Agent {
		return agent.NewConstant(seat)
	})

	outcome, records, err := e.Run()

	require.NoError(t, err)
	require.Equal(t, game.Seat(0), outcome.Winner)
	require.Equal(t, 1, outcome.TotalMoves)
	require.Len(t, records, 1, "one record per own turn")
	require.Equal(t, game.Seat(0), records[0].Seat)
	<-serverDone
}

func TestRemoteEngineRejected(t *testing.T) {
	cfg := game.DefaultConfig()
	path := filepath.Join(t.TempDir(), "game.sock")
	listener, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		frame(t, conn, communication.Reject{Reason: "game full"})
	}()

	client := communication.NewClient(path)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))
	defer client.Close()

	e := NewRemoteEngine(client, cfg, func(seat game.Seat) agent.Agent {
		return agent.NewConstant(seat)
	})

	_, _, err = e.Run()

	require.ErrorContains(t, err, "game full")
}
