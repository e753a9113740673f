package wasmbuild

import "bytes"

const (
	opUnreachable byte = 0x00
	opEnd         byte = 0x0B
	opCall        byte = 0x10
	opLocalGet    byte = 0x20
	opI32Const    byte = 0x41
	opI64Const    byte = 0x42
	opI64GtS      byte = 0x55
	opI64Add      byte = 0x7C
)

// Code accumulates the instructions of one function body. The terminating
// end opcode is added when the body is encoded.
type Code struct {
	buf bytes.Buffer
}

func NewCode() *Code {
	return &Code{}
}

func (c *Code) LocalGet(idx uint32) *Code {
	c.buf.WriteByte(opLocalGet)
	writeLEB128(&c.buf, idx)
	return c
}

func (c *Code) Call(funcIdx uint32) *Code {
	c.buf.WriteByte(opCall)
	writeLEB128(&c.buf, funcIdx)
	return c
}

func (c *Code) I32Const(v int32) *Code {
	c.buf.WriteByte(opI32Const)
	writeSLEB128(&c.buf, int64(v))
	return c
}

func (c *Code) I64Const(v int64) *Code {
	c.buf.WriteByte(opI64Const)
	writeSLEB128(&c.buf, v)
	return c
}

func (c *Code) I64Add() *Code {
	c.buf.WriteByte(opI64Add)
	return c
}

func (c *Code) I64GtS() *Code {
	c.buf.WriteByte(opI64GtS)
	return c
}

func (c *Code) Unreachable() *Code {
	c.buf.WriteByte(opUnreachable)
	return c
}
