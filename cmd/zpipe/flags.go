package main

import (
	"github.com/chronos-tachyon/zflate"
	getopt "github.com/pborman/getopt/v2"
)

// type FormatFlag {{{

// FormatFlag implements getopt.Value for zflate.Format.
type FormatFlag struct {
	Value zflate.Format
}

// Set fulfills getopt.Value.
func (flag *FormatFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag FormatFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*FormatFlag)(nil)

// }}}

// type StrategyFlag {{{

// StrategyFlag implements getopt.Value for zflate.Strategy.
type StrategyFlag struct {
	Value zflate.Strategy
}

// Set fulfills getopt.Value.
func (flag *StrategyFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag StrategyFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*StrategyFlag)(nil)

// }}}

// type CompressLevelFlag {{{

// CompressLevelFlag implements getopt.Value for zflate.CompressLevel.
type CompressLevelFlag struct {
	Value zflate.CompressLevel
}

// Set fulfills getopt.Value.
func (flag *CompressLevelFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag CompressLevelFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*CompressLevelFlag)(nil)

// }}}

// type MemoryLevelFlag {{{

// MemoryLevelFlag implements getopt.Value for zflate.MemoryLevel.
type MemoryLevelFlag struct {
	Value zflate.MemoryLevel
}

// Set fulfills getopt.Value.
func (flag *MemoryLevelFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag MemoryLevelFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*MemoryLevelFlag)(nil)

// }}}

// type WindowBitsFlag {{{

// WindowBitsFlag implements getopt.Value for zflate.WindowBits.
type WindowBitsFlag struct {
	Value zflate.WindowBits
}

// Set fulfills getopt.Value.
func (flag *WindowBitsFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag WindowBitsFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*WindowBitsFlag)(nil)

// }}}

// type FlushTypeFlag {{{

// FlushTypeFlag implements getopt.Value for zflate.FlushType.
type FlushTypeFlag struct {
	Value zflate.FlushType
}

// Set fulfills getopt.Value.
func (flag *FlushTypeFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag FlushTypeFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*FlushTypeFlag)(nil)

// }}}
