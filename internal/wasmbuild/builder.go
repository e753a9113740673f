// Package wasmbuild encodes small core WebAssembly modules. It covers what is
// needed to assemble test guests: types, imports, functions, memory, exports,
// code and data.
package wasmbuild

import (
	"bytes"
	"io"
)

type Builder struct {
	sections []Section
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddSection appends a section. Sections must be added in the order the
// binary format requires.
func (b *Builder) AddSection(section Section) {
	b.sections = append(b.sections, section)
}

func (b *Builder) Build() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x61, 0x73, 0x6D}) // WASM Magic Number
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00}) // WASM Version 1
	for _, section := range b.sections {
		if err := section.writeSection(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

type Section interface {
	writeSection(w writer) error
}

type writer interface {
	io.Writer
	io.ByteWriter
}

func writeSection(w writer, id byte, contents *bytes.Buffer) error {
	if err := w.WriteByte(id); err != nil {
		return err
	}
	if err := writeLEB128(w, uint32(contents.Len())); err != nil {
		return err
	}
	_, err := w.Write(contents.Bytes())
	return err
}

func writeName(w writer, name string) error {
	if err := writeLEB128(w, uint32(len(name))); err != nil {
		return err
	}
	_, err := w.Write([]byte(name))
	return err
}

type TypeSection struct {
	Types []*FuncTypeDef
}

// Add appends a function type and returns its index.
func (ts *TypeSection) Add(params []ValueType, results []ValueType) uint32 {
	ts.Types = append(ts.Types, &FuncTypeDef{ParamTypes: params, ResultTypes: results})
	return uint32(len(ts.Types) - 1)
}

func (ts *TypeSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(ts.Types))); err != nil {
		return err
	}
	for _, t := range ts.Types {
		if err := t.writeType(&contents); err != nil {
			return err
		}
	}
	return writeSection(w, 1, &contents)
}

type FuncTypeDef struct {
	ParamTypes  []ValueType
	ResultTypes []ValueType
}

func (f *FuncTypeDef) writeType(w writer) error {
	if err := w.WriteByte(0x60); err != nil {
		return err
	}

	if err := writeLEB128(w, uint32(len(f.ParamTypes))); err != nil {
		return err
	}
	for _, paramType := range f.ParamTypes {
		if err := paramType.writeType(w); err != nil {
			return err
		}
	}

	if err := writeLEB128(w, uint32(len(f.ResultTypes))); err != nil {
		return err
	}
	for _, resultType := range f.ResultTypes {
		if err := resultType.writeType(w); err != nil {
			return err
		}
	}

	return nil
}

type ImportSection struct {
	Imports []*Import
}

// AddFunc appends a function import and returns its function index.
func (is *ImportSection) AddFunc(module, name string, typeIdx uint32) uint32 {
	is.Imports = append(is.Imports, &Import{Module: module, Name: name, ImportDesc: &FuncType{TypeIdx: typeIdx}})
	return uint32(len(is.Imports) - 1)
}

func (is *ImportSection) writeSection(w writer) error {
	var contents bytes.Buffer
	writeLEB128(&contents, uint32(len(is.Imports)))
	for _, imp := range is.Imports {
		if err := writeName(&contents, imp.Module); err != nil {
			return err
		}
		if err := writeName(&contents, imp.Name); err != nil {
			return err
		}
		if err := imp.ImportDesc.writeImportDesc(&contents); err != nil {
			return err
		}
	}
	return writeSection(w, 2, &contents)
}

type Import struct {
	Module     string
	Name       string
	ImportDesc ImportDesc
}

type ImportDesc interface {
	writeImportDesc(writer) error
}

type FuncType struct {
	TypeIdx uint32
}

func (f *FuncType) writeImportDesc(w writer) error {
	if err := w.WriteByte(0); err != nil {
		return err
	}
	return writeLEB128(w, f.TypeIdx)
}

type FuncSection struct {
	FuncTypeIndices []uint32
}

func (fs *FuncSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(fs.FuncTypeIndices))); err != nil {
		return err
	}
	for _, typeIdx := range fs.FuncTypeIndices {
		if err := writeLEB128(&contents, typeIdx); err != nil {
			return err
		}
	}
	return writeSection(w, 3, &contents)
}

type Limits struct {
	Min, Max uint32
	HasMax   bool
}

func (l *Limits) writeLimits(w writer) error {
	if !l.HasMax {
		if err := w.WriteByte(0); err != nil {
			return err
		}
		return writeLEB128(w, l.Min)
	}
	if err := w.WriteByte(1); err != nil {
		return err
	}
	if err := writeLEB128(w, l.Min); err != nil {
		return err
	}
	return writeLEB128(w, l.Max)
}

type MemorySection struct {
	Memories []*Limits
}

func (ms *MemorySection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(ms.Memories))); err != nil {
		return err
	}
	for _, m := range ms.Memories {
		if err := m.writeLimits(&contents); err != nil {
			return err
		}
	}
	return writeSection(w, 5, &contents)
}

type ExportSection struct {
	Exports []*Export
}

func (es *ExportSection) writeSection(w writer) error {
	var contents bytes.Buffer
	writeLEB128(&contents, uint32(len(es.Exports)))
	for _, exp := range es.Exports {
		if err := writeName(&contents, exp.Name); err != nil {
			return err
		}
		if err := exp.ExportDesc.writeExportDesc(&contents); err != nil {
			return err
		}
	}
	return writeSection(w, 7, &contents)
}

type Export struct {
	Name       string
	ExportDesc ExportDesc
}

type ExportDesc interface {
	writeExportDesc(w writer) error
}

type FuncExport struct {
	Idx uint32
}

func (f *FuncExport) writeExportDesc(w writer) error {
	if err := w.WriteByte(0); err != nil {
		return err
	}
	return writeLEB128(w, f.Idx)
}

type MemoryExport struct {
	Idx uint32
}

func (m *MemoryExport) writeExportDesc(w writer) error {
	if err := w.WriteByte(2); err != nil {
		return err
	}
	return writeLEB128(w, m.Idx)
}

// CodeSection holds the bodies of the functions declared in FuncSection, in
// the same order.
type CodeSection struct {
	Bodies []*Code
}

func (cs *CodeSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(cs.Bodies))); err != nil {
		return err
	}
	for _, c := range cs.Bodies {
		var body bytes.Buffer
		// no locals beyond the parameters
		body.WriteByte(0)
		body.Write(c.buf.Bytes())
		body.WriteByte(opEnd)
		if err := writeLEB128(&contents, uint32(body.Len())); err != nil {
			return err
		}
		contents.Write(body.Bytes())
	}
	return writeSection(w, 10, &contents)
}

// DataSection holds active segments for memory 0.
type DataSection struct {
	Segments []*DataSegment
}

type DataSegment struct {
	Offset int32
	Data   []byte
}

func (ds *DataSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(ds.Segments))); err != nil {
		return err
	}
	for _, seg := range ds.Segments {
		contents.WriteByte(0)
		contents.WriteByte(opI32Const)
		writeSLEB128(&contents, int64(seg.Offset))
		contents.WriteByte(opEnd)
		if err := writeLEB128(&contents, uint32(len(seg.Data))); err != nil {
			return err
		}
		contents.Write(seg.Data)
	}
	return writeSection(w, 11, &contents)
}

func writeLEB128(w writer, value uint32) error {
	for {
		b := byte(value & 0x7F)
		value >>= 7
		if value != 0 {
			b |= 0x80
		}
		if _, err := w.Write([]byte{b}); err != nil {
			return err
		}
		if value == 0 {
			break
		}
	}
	return nil
}

func writeSLEB128(w writer, value int64) error {
	for {
		b := byte(value & 0x7F)
		value >>= 7
		done := (value == 0 && b&0x40 == 0) || (value == -1 && b&0x40 != 0)
		if !done {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
