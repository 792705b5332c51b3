package presence

import (
	"encoding/binary"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// Discord IPC opcodes
const (
	opHandshake uint32 = 0
	opFrame     uint32 = 1
	opClose     uint32 = 2
	opPing      uint32 = 3
	opPong      uint32 = 4
)

const (
	_headerSize   = 8
	_maxFrameSize = 64 * 1024
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// frame is one IPC message: a little-endian opcode and length followed by JSON
type frame struct {
	op      uint32
	payload []byte
}

func writeFrame(w io.Writer, op uint32, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	buf := make([]byte, _headerSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], op)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[_headerSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func readFrame(r io.Reader) (frame, error) {
	var header [_headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return frame{}, fmt.Errorf("failed to read frame header: %w", err)
	}

	op := binary.LittleEndian.Uint32(header[0:4])
	size := binary.LittleEndian.Uint32(header[4:8])
	if size > _maxFrameSize {
		return frame{}, fmt.Errorf("frame too large: %d bytes", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return frame{}, fmt.Errorf("failed to read frame payload: %w", err)
	}
	return frame{op: op, payload: payload}, nil
}

type handshake struct {
	Version  int    `json:"v"`
	ClientID string `json:"client_id"`
}

type command struct {
	Cmd   string      `json:"cmd"`
	Args  commandArgs `json:"args"`
	Nonce string      `json:"nonce"`
}

type commandArgs struct {
	PID      int              `json:"pid"`
	Activity *activityPayload `json:"activity"`
}

// activityTypeListening renders as "Listening to ..."
const activityTypeListening = 2

type activityPayload struct {
	Type       int                `json:"type"`
	Details    string             `json:"details,omitempty"`
	State      string             `json:"state,omitempty"`
	Timestamps *timestampsPayload `json:"timestamps,omitempty"`
	Assets     *assetsPayload     `json:"assets,omitempty"`
	Buttons    []buttonPayload    `json:"buttons,omitempty"`
}

type timestampsPayload struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

type assetsPayload struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

type buttonPayload struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// response is what Discord sends back for handshakes and commands
type response struct {
	Cmd   string `json:"cmd"`
	Evt   string `json:"evt"`
	Nonce string `json:"nonce"`
	Data  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		User    struct {
			Username string `json:"username"`
		} `json:"user"`
	} `json:"data"`
}

// closePayload is sent with opClose, by Discord when it rejects a handshake
type closePayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
