package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// inflateMode is the state of the stream-level decoder.
type inflateMode byte

const (
	methodMode inflateMode = iota // waiting for CMF
	flagMode                      // waiting for FLG
	dict4Mode                     // four dictionary check bytes to go
	dict3Mode                     // three dictionary check bytes to go
	dict2Mode                     // two dictionary check bytes to go
	dict1Mode                     // one dictionary check byte to go
	dict0Mode                     // waiting for InflateSetDictionary
	blocksMode                    // decompressing blocks
	check4Mode                    // four check bytes to go
	check3Mode                    // three check bytes to go
	check2Mode                    // two check bytes to go
	check1Mode                    // one check byte to go
	doneMode                      // finished check, done
	badMode                       // got an error; stay here
)

var inflateModeData = []enumhelper.EnumData{
	{GoName: "methodMode", Name: "method"},
	{GoName: "flagMode", Name: "flag"},
	{GoName: "dict4Mode", Name: "dict4"},
	{GoName: "dict3Mode", Name: "dict3"},
	{GoName: "dict2Mode", Name: "dict2"},
	{GoName: "dict1Mode", Name: "dict1"},
	{GoName: "dict0Mode", Name: "dict0"},
	{GoName: "blocksMode", Name: "blocks"},
	{GoName: "check4Mode", Name: "check4"},
	{GoName: "check3Mode", Name: "check3"},
	{GoName: "check2Mode", Name: "check2"},
	{GoName: "check1Mode", Name: "check1"},
	{GoName: "doneMode", Name: "done"},
	{GoName: "badMode", Name: "bad"},
}

func (m inflateMode) GoString() string {
	return enumhelper.DereferenceEnumData("inflateMode", inflateModeData, uint(m)).GoName
}

func (m inflateMode) String() string {
	return enumhelper.DereferenceEnumData("inflateMode", inflateModeData, uint(m)).Name
}

var _ fmt.GoStringer = inflateMode(0)
var _ fmt.Stringer = inflateMode(0)

// blockMode is the state of the block decoder.
type blockMode byte

const (
	typeBlockMode   blockMode = iota // reading the 3-bit block header
	lensBlockMode                    // reading LEN and NLEN of a stored block
	storedBlockMode                  // copying stored bytes
	tableBlockMode                   // reading HLIT, HDIST, HCLEN
	btreeBlockMode                   // reading code length code lengths
	dtreeBlockMode                   // reading literal/length and distance code lengths
	codesBlockMode                   // decoding symbols
	dryBlockMode                     // output remains after the final block
	doneBlockMode                    // finished the final block
	badBlockMode                     // got a data error; stay here
)

var blockModeData = []enumhelper.EnumData{
	{GoName: "typeBlockMode", Name: "type"},
	{GoName: "lensBlockMode", Name: "lens"},
	{GoName: "storedBlockMode", Name: "stored"},
	{GoName: "tableBlockMode", Name: "table"},
	{GoName: "btreeBlockMode", Name: "btree"},
	{GoName: "dtreeBlockMode", Name: "dtree"},
	{GoName: "codesBlockMode", Name: "codes"},
	{GoName: "dryBlockMode", Name: "dry"},
	{GoName: "doneBlockMode", Name: "done"},
	{GoName: "badBlockMode", Name: "bad"},
}

func (m blockMode) GoString() string {
	return enumhelper.DereferenceEnumData("blockMode", blockModeData, uint(m)).GoName
}

func (m blockMode) String() string {
	return enumhelper.DereferenceEnumData("blockMode", blockModeData, uint(m)).Name
}

var _ fmt.GoStringer = blockMode(0)
var _ fmt.Stringer = blockMode(0)

// codesMode is the state of the symbol decoder.
type codesMode byte

const (
	startCodesMode   codesMode = iota // set up for lenCodesMode
	lenCodesMode                      // i: get length/literal/eob next
	lenExtCodesMode                   // i: getting length extra (have base)
	distCodesMode                     // i: get distance next
	distExtCodesMode                  // i: getting distance extra
	copyCodesMode                     // o: copying bytes in window, waiting for space
	litCodesMode                      // o: got literal, waiting for output space
	washCodesMode                     // o: got eob, possibly still output waiting
	endCodesMode                      // x: got eob and all data flushed
	badCodesMode                      // x: got error
)

var codesModeData = []enumhelper.EnumData{
	{GoName: "startCodesMode", Name: "start"},
	{GoName: "lenCodesMode", Name: "len"},
	{GoName: "lenExtCodesMode", Name: "lenext"},
	{GoName: "distCodesMode", Name: "dist"},
	{GoName: "distExtCodesMode", Name: "distext"},
	{GoName: "copyCodesMode", Name: "copy"},
	{GoName: "litCodesMode", Name: "lit"},
	{GoName: "washCodesMode", Name: "wash"},
	{GoName: "endCodesMode", Name: "end"},
	{GoName: "badCodesMode", Name: "bad"},
}

func (m codesMode) GoString() string {
	return enumhelper.DereferenceEnumData("codesMode", codesModeData, uint(m)).GoName
}

func (m codesMode) String() string {
	return enumhelper.DereferenceEnumData("codesMode", codesModeData, uint(m)).Name
}

var _ fmt.GoStringer = codesMode(0)
var _ fmt.Stringer = codesMode(0)
