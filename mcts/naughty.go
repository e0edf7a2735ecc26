package mcts

// naughty is an index into the tree's node arena, kept as its own type so
// it's never confused with a game.ActionID by accident.
type naughty int32

const nilNode naughty = -1
