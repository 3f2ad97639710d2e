package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// stream is the Go side of a stream object. A stream on the heap is a single
// field, the fixnum index of its stream in the VM.
type stream struct {
	name  string
	input bool
	r     *bufio.Reader
	// w writes encoded text. raw writes bytes unchanged.
	w   io.Writer
	raw io.Writer
	sb  *strings.Builder
	// closers are closed in order when the stream is closed.
	closers []io.Closer
	open    bool
	unread  []rune
}

var (
	keyInput  = Keyword("input")
	keyOutput = Keyword("output")
	keyFile   = Keyword("file")
	keyString = Keyword("string")
)

// Encoding returns the text encoding with the given name. Names are IANA
// charset names or aliases, e.g. "utf-8", "utf-16le", or "latin1".
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

func (vm *VM) addStream(s *stream) Tag {
	idx := len(vm.streams)
	vm.streams = append(vm.streams, s)
	return Indirect(vm.Heap.Alloc([]Tag{Fixnum(int64(idx))}, ClassStream), TagHeap)
}

func (vm *VM) streamOf(t Tag) *stream {
	return vm.streams[vm.Heap.Field(t.Offset(), 0).Int()]
}

// OpenReader creates an input stream reading from r through the VM's text
// encoding. If r is an io.Closer, closing the stream closes it.
func (vm *VM) OpenReader(name string, r io.Reader) Tag {
	s := &stream{
		name:  name,
		input: true,
		r:     bufio.NewReader(vm.enc.NewDecoder().Reader(r)),
		open:  true,
	}
	if c, ok := r.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	return vm.addStream(s)
}

// OpenWriter creates an output stream writing to w through the VM's text
// encoding. If w is an io.Closer, closing the stream closes it.
func (vm *VM) OpenWriter(name string, w io.Writer) Tag {
	tw := vm.enc.NewEncoder().Writer(w)
	s := &stream{name: name, w: tw, raw: w, open: true}
	if c, ok := tw.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	if c, ok := w.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	return vm.addStream(s)
}

// OpenString creates a string stream. An input stream reads the characters of
// s. An output stream accumulates characters for get-str.
func (vm *VM) OpenString(s string, input bool) Tag {
	if input {
		return vm.addStream(&stream{name: "string", input: true, r: bufio.NewReader(strings.NewReader(s)), open: true})
	}
	sb := &strings.Builder{}
	sb.WriteString(s)
	return vm.addStream(&stream{name: "string", w: sb, raw: sb, sb: sb, open: true})
}

// OpenFile opens a file stream. It returns an Open exception if the file
// cannot be opened.
func (vm *VM) OpenFile(path string, input bool) (Tag, error) {
	if input {
		f, err := os.Open(path)
		if err != nil {
			vm.Log.Debug("open", "path", path, "err", err.Error())
			return Nil, vm.Raise(CondOpen, "open", vm.NewString(path))
		}
		return vm.OpenReader(path, f), nil
	}
	f, err := os.Create(path)
	if err != nil {
		vm.Log.Debug("open", "path", path, "err", err.Error())
		return Nil, vm.Raise(CondOpen, "open", vm.NewString(path))
	}
	return vm.OpenWriter(path, f), nil
}

// IsStream reports whether t is a stream.
func (vm *VM) IsStream(t Tag) bool {
	return vm.ClassOf(t) == ClassStream
}

// IsOpen reports whether a stream is open.
func (vm *VM) IsOpen(t Tag) bool {
	return vm.streamOf(t).open
}

// CloseStream closes a stream. It returns false if the stream was already
// closed.
func (vm *VM) CloseStream(t Tag) bool {
	s := vm.streamOf(t)
	if !s.open {
		return false
	}
	s.open = false
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			vm.Log.Warn("close stream", "name", s.name, "err", err.Error())
		}
	}
	return true
}

func (vm *VM) checkStream(t Tag, input bool, src string) (*stream, error) {
	s := vm.streamOf(t)
	if !s.open {
		return nil, vm.Raise(CondOpen, src, t)
	}
	if s.input != input {
		return nil, vm.Raise(CondStream, src, t)
	}
	return s, nil
}

// ReadChar reads one character from an input stream. The result is false at
// end of input.
func (vm *VM) ReadChar(t Tag) (rune, bool, error) {
	s, err := vm.checkStream(t, true, "rd-char")
	if err != nil {
		return 0, false, err
	}
	if n := len(s.unread); n > 0 {
		r := s.unread[n-1]
		s.unread = s.unread[:n-1]
		return r, true, nil
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, vm.Raise(CondRead, "rd-char", t)
	}
	return r, true, nil
}

// UnreadChar pushes a character back onto an input stream.
func (vm *VM) UnreadChar(t Tag, r rune) error {
	s, err := vm.checkStream(t, true, "un-char")
	if err != nil {
		return err
	}
	s.unread = append(s.unread, r)
	return nil
}

// ReadStreamByte reads one byte from an input stream. The result is false at
// end of input.
func (vm *VM) ReadStreamByte(t Tag) (byte, bool, error) {
	s, err := vm.checkStream(t, true, "rd-byte")
	if err != nil {
		return 0, false, err
	}
	b, err := s.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, vm.Raise(CondRead, "rd-byte", t)
	}
	return b, true, nil
}

// IsEOF reports whether an input stream has no more input.
func (vm *VM) IsEOF(t Tag) bool {
	s := vm.streamOf(t)
	if !s.input || !s.open {
		return true
	}
	if len(s.unread) > 0 {
		return false
	}
	_, err := s.r.Peek(1)
	return err != nil
}

// WriteChar writes one character to an output stream.
func (vm *VM) WriteChar(t Tag, r rune) error {
	s, err := vm.checkStream(t, false, "wr-char")
	if err != nil {
		return err
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	if _, err := s.w.Write(buf[:n]); err != nil {
		return vm.Raise(CondWrite, "wr-char", t)
	}
	return nil
}

// WriteStreamByte writes one byte to an output stream.
func (vm *VM) WriteStreamByte(t Tag, b byte) error {
	s, err := vm.checkStream(t, false, "wr-byte")
	if err != nil {
		return err
	}
	if _, err := s.raw.Write([]byte{b}); err != nil {
		return vm.Raise(CondWrite, "wr-byte", t)
	}
	return nil
}

// WriteString writes a Go string to an output stream.
func (vm *VM) WriteString(t Tag, str string) error {
	s, err := vm.checkStream(t, false, "write")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, str); err != nil {
		return vm.Raise(CondWrite, "write", t)
	}
	return nil
}

// GetString returns and clears the contents of a string output stream.
func (vm *VM) GetString(t Tag) (string, error) {
	s, err := vm.checkStream(t, false, "get-str")
	if err != nil {
		return "", err
	}
	if s.sb == nil {
		return "", vm.Raise(CondType, "get-str", t)
	}
	r := s.sb.String()
	s.sb.Reset()
	return r, nil
}

func (vm *VM) streamArg(fp *Frame, i int, src string) (Tag, error) {
	t := fp.Argv[i]
	if !vm.IsStream(t) {
		return Nil, vm.Raise(CondType, src, t)
	}
	return t, nil
}

// StreamOpen is a native function.
//
// open opens a stream. Its arguments are the stream type, :file or :string,
// the direction, :input or :output, and a string naming the file or giving
// the initial contents.
func StreamOpen(vm *VM, fp *Frame) error {
	typ, dir, arg := fp.Argv[0], fp.Argv[1], fp.Argv[2]
	s, ok := vm.StringOf(arg)
	if !ok {
		return vm.Raise(CondType, "open", arg)
	}
	var input bool
	switch dir {
	case keyInput:
		input = true
	case keyOutput:
		input = false
	default:
		return vm.Raise(CondType, "open", dir)
	}
	switch typ {
	case keyFile:
		r, err := vm.OpenFile(s, input)
		if err != nil {
			return err
		}
		fp.Value = r
	case keyString:
		fp.Value = vm.OpenString(s, input)
	default:
		return vm.Raise(CondType, "open", typ)
	}
	return nil
}

// StreamClose is a native function.
//
// close closes a stream. It returns t if the stream was open and nil
// otherwise.
func StreamClose(vm *VM, fp *Frame) error {
	t, err := vm.streamArg(fp, 0, "close")
	if err != nil {
		return err
	}
	fp.Value = Bool(vm.CloseStream(t))
	return nil
}

// StreamOpenp is a native function.
//
// openp returns its argument if it is an open stream and nil otherwise.
func StreamOpenp(vm *VM, fp *Frame) error {
	t, err := vm.streamArg(fp, 0, "openp")
	if err != nil {
		return err
	}
	fp.Value = Nil
	if vm.IsOpen(t) {
		fp.Value = t
	}
	return nil
}

// StreamEOF is a native function.
//
// eof returns t if an input stream is at end of input.
func StreamEOF(vm *VM, fp *Frame) error {
	t, err := vm.streamArg(fp, 0, "eof")
	if err != nil {
		return err
	}
	fp.Value = Bool(vm.IsEOF(t))
	return nil
}

// StreamGetString is a native function.
//
// get-str returns and clears the accumulated contents of a string output
// stream.
func StreamGetString(vm *VM, fp *Frame) error {
	t, err := vm.streamArg(fp, 0, "get-str")
	if err != nil {
		return err
	}
	s, err := vm.GetString(t)
	if err != nil {
		return err
	}
	fp.Value = vm.NewString(s)
	return nil
}

// StreamReadChar is a native function.
//
// rd-char reads a character from a stream. At end of input, it returns its
// third argument if its second is not nil and raises eof otherwise.
func StreamReadChar(vm *VM, fp *Frame) error {
	t, err := vm.streamArg(fp, 0, "rd-char")
	if err != nil {
		return err
	}
	r, ok, err := vm.ReadChar(t)
	switch {
	case err != nil:
		return err
	case ok:
		fp.Value = Char(r)
	case fp.Argv[1] != Nil:
		fp.Value = fp.Argv[2]
	default:
		return vm.Raise(CondEof, "rd-char", t)
	}
	return nil
}

// StreamUnreadChar is a native function.
//
// un-char pushes a character, its second argument, back onto a stream.
func StreamUnreadChar(vm *VM, fp *Frame) error {
	t, err := vm.streamArg(fp, 0, "un-char")
	if err != nil {
		return err
	}
	ch := fp.Argv[1]
	if vm.ClassOf(ch) != ClassChar {
		return vm.Raise(CondType, "un-char", ch)
	}
	if err := vm.UnreadChar(t, ch.Rune()); err != nil {
		return err
	}
	fp.Value = ch
	return nil
}

// StreamWriteChar is a native function.
//
// wr-char writes a character to a stream.
func StreamWriteChar(vm *VM, fp *Frame) error {
	ch := fp.Argv[0]
	if vm.ClassOf(ch) != ClassChar {
		return vm.Raise(CondType, "wr-char", ch)
	}
	t, err := vm.streamArg(fp, 1, "wr-char")
	if err != nil {
		return err
	}
	if err := vm.WriteChar(t, ch.Rune()); err != nil {
		return err
	}
	fp.Value = ch
	return nil
}

// StreamReadByte is a native function.
//
// rd-byte reads a byte from a stream. End of input is handled as for rd-char.
func StreamReadByte(vm *VM, fp *Frame) error {
	t, err := vm.streamArg(fp, 0, "rd-byte")
	if err != nil {
		return err
	}
	b, ok, err := vm.ReadStreamByte(t)
	switch {
	case err != nil:
		return err
	case ok:
		fp.Value = Fixnum(int64(b))
	case fp.Argv[1] != Nil:
		fp.Value = fp.Argv[2]
	default:
		return vm.Raise(CondEof, "rd-byte", t)
	}
	return nil
}

// StreamWriteByte is a native function.
//
// wr-byte writes a byte, a fixnum in [0, 255], to a stream.
func StreamWriteByte(vm *VM, fp *Frame) error {
	b := fp.Argv[0]
	if !b.IsFixnum() || b.Int() < 0 || b.Int() > 0xff {
		return vm.Raise(CondType, "wr-byte", b)
	}
	t, err := vm.streamArg(fp, 1, "wr-byte")
	if err != nil {
		return err
	}
	if err := vm.WriteStreamByte(t, byte(b.Int())); err != nil {
		return err
	}
	fp.Value = b
	return nil
}
