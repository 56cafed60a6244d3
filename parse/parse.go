package parse

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/klawil/gnuradio-rocket-tracker/csv"
	"github.com/klawil/gnuradio-rocket-tracker/decode"
)

const (
	TimeFormat = "2006-01-02T15:04:05.000"

	// Offset of the type code in every message.
	TypeOffset = 4
)

var (
	parserMutex sync.Mutex
	parsers     = make(map[uint8]registration)
)

type registration struct {
	name string
	fn   NewMessageFunc
}

// NewMessageFunc builds a record from a complete de-whitened message.
type NewMessageFunc func(Data) Message

// Register makes a record kind available to Parse for each of the given type
// codes. It is intended to be called from a kind package's init function and
// panics on a nil function, an empty code list or a code registered twice.
func Register(name string, fn NewMessageFunc, codes ...uint8) {
	parserMutex.Lock()
	defer parserMutex.Unlock()

	if fn == nil {
		panic("parser: new message func is nil")
	}
	if len(codes) == 0 {
		panic(fmt.Sprintf("parser: no type codes given (%s)", name))
	}

	for _, code := range codes {
		if prev, dup := parsers[code]; dup {
			panic(fmt.Sprintf("parser: type 0x%02X already registered (%s, %s)", code, prev.name, name))
		}
		parsers[code] = registration{name, fn}
	}
}

// Registered returns the name registered for each known type code.
func Registered() map[uint8]string {
	parserMutex.Lock()
	defer parserMutex.Unlock()

	names := make(map[uint8]string, len(parsers))
	for code, reg := range parsers {
		names[code] = reg.name
	}
	return names
}

// Codes returns the type codes registered under name, in ascending order.
func Codes(name string) (codes []uint8) {
	parserMutex.Lock()
	defer parserMutex.Unlock()

	for code, reg := range parsers {
		if reg.name == name {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return codes
}

// Parse dispatches a message on its type code. Unknown codes produce a Base
// record holding only the header. Input shorter than a full message is zero
// padded.
func Parse(data []byte) Message {
	d := NewData(data)

	parserMutex.Lock()
	reg, exists := parsers[d.Uint8(TypeOffset)]
	parserMutex.Unlock()

	if !exists {
		return NewBase(d)
	}
	return reg.fn(d)
}

// Data is a read-only view of a message. Multi-byte fields are little
// endian.
type Data struct {
	Bytes []byte
}

func NewData(data []byte) (d Data) {
	d.Bytes = make([]byte, decode.MessageBytes)
	copy(d.Bytes, data)
	return
}

func (d Data) Uint8(offset int) uint8 {
	return d.Bytes[offset]
}

func (d Data) Int8(offset int) int8 {
	return int8(d.Bytes[offset])
}

func (d Data) Uint16(offset int) uint16 {
	return binary.LittleEndian.Uint16(d.Bytes[offset:])
}

func (d Data) Int16(offset int) int16 {
	return int16(d.Uint16(offset))
}

func (d Data) Uint32(offset int) uint32 {
	return binary.LittleEndian.Uint32(d.Bytes[offset:])
}

func (d Data) Int32(offset int) int32 {
	return int32(d.Uint32(offset))
}

// String reads a NUL padded ASCII field of n bytes.
func (d Data) String(offset, n int) string {
	s := d.Bytes[offset : offset+n]
	if idx := strings.IndexByte(string(s), 0); idx >= 0 {
		s = s[:idx]
	}
	return string(s)
}

type Message interface {
	csv.Recorder
	fmt.Stringer
	MsgType() string
	Serial() uint16
	RocketTime() uint16
	TypeCode() uint8
	Checksum() []byte
}

// Header holds the fields common to every message.
type Header struct {
	SerialNum   uint16 `xml:"Serial,attr" json:"serial"`
	RTime       uint16 `xml:"RocketTime,attr" json:"rtime"`
	Type        uint8  `xml:",attr" json:"type"`
	ChecksumVal uint16 `xml:"Checksum,attr" json:"-"`
}

func NewHeader(d Data) Header {
	return Header{
		SerialNum:   d.Uint16(0),
		RTime:       d.Uint16(2),
		Type:        d.Uint8(TypeOffset),
		ChecksumVal: binary.BigEndian.Uint16(d.Bytes[decode.CRCOffset:]),
	}
}

func (h Header) Serial() uint16 {
	return h.SerialNum
}

// RocketTime is the transmitter's clock in centiseconds.
func (h Header) RocketTime() uint16 {
	return h.RTime
}

func (h Header) TypeCode() uint8 {
	return h.Type
}

func (h Header) Checksum() []byte {
	checksum := make([]byte, 2)
	binary.BigEndian.PutUint16(checksum, h.ChecksumVal)
	return checksum
}

func (h Header) String() string {
	return fmt.Sprintf("Serial:%5d RTime:%5d Type:0x%02X", h.SerialNum, h.RTime, h.Type)
}

func (h Header) Record() (r []string) {
	r = append(r, strconv.FormatUint(uint64(h.SerialNum), 10))
	r = append(r, strconv.FormatUint(uint64(h.RTime), 10))
	r = append(r, strconv.FormatUint(uint64(h.Type), 10))
	return r
}

// Base is the record for type codes with no registered layout.
type Base struct {
	Header
}

func NewBase(d Data) Base {
	return Base{NewHeader(d)}
}

func (b Base) MsgType() string {
	return "Base"
}

func (b Base) String() string {
	return "{" + b.Header.String() + "}"
}

// Hex is a byte slice encoded as lowercase hex in text formats.
type Hex []byte

func (h Hex) String() string {
	return hex.EncodeToString(h)
}

func (h Hex) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

type LogMessage struct {
	Time  time.Time `xml:",attr"`
	Freq  float64   `xml:",attr"`
	Valid bool      `xml:",attr"`
	Raw   Hex       `xml:",attr"`
	Message
}

// FreqMHz is the carrier frequency the message was received on.
func (msg LogMessage) FreqMHz() string {
	return strconv.FormatFloat(msg.Freq/1e6, 'f', 3, 64)
}

func (msg LogMessage) String() string {
	return fmt.Sprintf("{Time:%s Freq:%s Valid:%v %s:%s}",
		msg.Time.Format(TimeFormat), msg.FreqMHz(), msg.Valid, msg.MsgType(), msg.Message,
	)
}

func (msg LogMessage) Record() (r []string) {
	r = append(r, msg.Time.Format(time.RFC3339Nano))
	r = append(r, msg.FreqMHz())
	r = append(r, strconv.FormatBool(msg.Valid))
	r = append(r, msg.MsgType())
	r = append(r, msg.Message.Record()...)
	r = append(r, msg.Raw.String())
	return r
}

// MarshalJSON flattens the record's fields alongside the reception details:
// serial, freq (MHz), type, rtime, time (ms since epoch), raw, valid.
func (msg LogMessage) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage)

	if msg.Message != nil {
		buf, err := json.Marshal(msg.Message)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal %s", msg.MsgType())
		}
		if err := json.Unmarshal(buf, &fields); err != nil {
			return nil, errors.Wrapf(err, "flatten %s", msg.MsgType())
		}
		fields["msgtype"], _ = json.Marshal(msg.MsgType())
	}

	fields["freq"] = json.RawMessage(msg.FreqMHz())
	fields["time"] = json.RawMessage(strconv.FormatInt(msg.Time.UnixNano()/int64(time.Millisecond), 10))
	fields["raw"], _ = json.Marshal(msg.Raw)
	fields["valid"] = json.RawMessage(strconv.FormatBool(msg.Valid))

	return json.Marshal(fields)
}

type FilterChain []MessageFilter

func (fc *FilterChain) Add(filter MessageFilter) {
	*fc = append(*fc, filter)
}

func (fc FilterChain) Match(msg Message) bool {
	if len(fc) == 0 {
		return true
	}

	for _, filter := range fc {
		if !filter.Filter(msg) {
			return false
		}
	}

	return true
}

type MessageFilter interface {
	Filter(Message) bool
}
