package command

import "errors"

// ErrInvalidCommand is returned by Decode when a history line has an
// unknown opcode, malformed quoting, or the wrong number of arguments for
// its opcode.
var ErrInvalidCommand = errors.New("invalid command")
