// memstat/memstat.go

// Package memstat reports how the target's RAM is split between the Go heap
// and everything else.
package memstat

import (
	"io"
	"runtime"
	"strconv"
)

// RP2040RAM is the SRAM size of the RP2040 (264 KiB).
const RP2040RAM = 264 * 1024

// Report is a snapshot of memory use in bytes.
type Report struct {
	RAMTotal  uint64
	HeapTotal uint64
	HeapUsed  uint64
	HeapFree  uint64
	RAMFree   uint64
	Stack     uint64
	Mallocs   uint64
	Frees     uint64
}

// Read takes a snapshot for a board with ramTotal bytes of RAM.
func Read(ramTotal uint64) Report {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return FromMemStats(ramTotal, &ms)
}

// FromMemStats builds a Report from ms.
func FromMemStats(ramTotal uint64, ms *runtime.MemStats) Report {
	r := Report{
		RAMTotal:  ramTotal,
		HeapTotal: ms.HeapSys,
		HeapUsed:  ms.HeapInuse,
		Stack:     ms.StackInuse,
		Mallocs:   ms.Mallocs,
		Frees:     ms.Frees,
	}
	if r.HeapTotal > r.HeapUsed {
		r.HeapFree = r.HeapTotal - r.HeapUsed
	}
	if ramTotal > ms.Sys {
		r.RAMFree = ramTotal - ms.Sys
	}
	return r
}

// WriteTo writes the report as a short text block.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	b := make([]byte, 0, 224)
	b = append(b, "\r\n=== Memory Report ===\r\n"...)
	b = appendField(b, "RAM Total", r.RAMTotal)
	b = appendField(b, "Heap Total", r.HeapTotal)
	b = appendField(b, "Heap Used", r.HeapUsed)
	b = appendField(b, "Heap Free", r.HeapFree)
	b = appendField(b, "RAM Free", r.RAMFree)
	b = appendField(b, "Stack Usage", r.Stack)
	b = append(b, "Allocs: "...)
	b = strconv.AppendUint(b, r.Mallocs, 10)
	b = append(b, " Frees: "...)
	b = strconv.AppendUint(b, r.Frees, 10)
	b = append(b, "\r\n===================\r\n"...)
	n, err := w.Write(b)
	return int64(n), err
}

func appendField(b []byte, name string, v uint64) []byte {
	b = append(b, name...)
	b = append(b, ": "...)
	b = strconv.AppendUint(b, v, 10)
	return append(b, " B\r\n"...)
}
