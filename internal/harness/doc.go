// Package harness runs scripted Quixo games and checks their outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: two_player_row_win
//	description: "Player 1 completes row 0"
//	mode: TwoPlayers
//	start:                        # optional
//	  board: "O-O-O-O-X-/.-.-.-.-X-/.-.-.-.-X-/.-.-.-.-X-/X-X-X-X-O-"
//	  current_player: 1
//	  first_round: false
//	steps:
//	  - from: [0, 4]
//	    to: [0, 0]
//	  - from: [2, 2]
//	    to: [2, 4]
//	    expect_error: NOT_PERIPHERAL
//	expect:                       # optional, unset fields are not checked
//	  status: WonByPlayer1
//	  current_player: 1
//	  first_round: false
//	  move_count: 9
//	  cells:
//	    - at: [0, 0]
//	      symbol: Circle
//	      facing: ""
//
// Files are validated against an embedded CUE schema before decoding, so a
// misspelled key or an unknown status is reported with its path.
//
// # Deterministic Testing
//
// Scenarios run against the rules engine alone. No clock, storage or
// randomness is involved, so the trace of a scenario is fixed and can be
// compared with a golden file by RunWithGolden.
package harness
