package wasmbuild

type Type interface {
	writeType(w writer) error
}

type ValueType interface {
	Type
	isValueType()
}

type I32 struct{}

func (i I32) isValueType() {}

func (i I32) writeType(w writer) error {
	return w.WriteByte(0x7F)
}

type I64 struct{}

func (i I64) isValueType() {}

func (i I64) writeType(w writer) error {
	return w.WriteByte(0x7E)
}

type F32 struct{}

func (f F32) isValueType() {}

func (f F32) writeType(w writer) error {
	return w.WriteByte(0x7D)
}

type F64 struct{}

func (f F64) isValueType() {}

func (f F64) writeType(w writer) error {
	return w.WriteByte(0x7C)
}
