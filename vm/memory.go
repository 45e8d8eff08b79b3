// Package vm implements the cell-based virtual machine: paged memory, the
// dual-mode ALU, and the fetch/decode/execute processor loop.
package vm

import "fmt"

const (
	// PageSize is the number of cells in a single MemoryBlock.
	PageSize = 1 << 15 // 32768
)

// MemoryBlock is a fixed-size, zero-initialized page of cells; the unit of
// growth for the address space.
type MemoryBlock struct {
	cells [PageSize]uint32
}

func newMemoryBlock() *MemoryBlock {
	return &MemoryBlock{}
}

// AddressSpace maps a flat 32-bit cell address onto an ordered, append-only
// list of pages. Reading past the last page yields the zero cell; writing
// past the last page is a fatal error left for the caller to turn into a
// MemoryFault.
type AddressSpace struct {
	pages []*MemoryBlock
}

// page and offset split a logical address the way the original "beginning
// address / constant size" division did in the reference implementation.
func page(addr uint32) uint32  { return addr / PageSize }
func offset(addr uint32) uint32 { return addr % PageSize }

// PageCount returns the number of pages currently allocated.
func (a *AddressSpace) PageCount() int {
	return len(a.pages)
}

// AppendPage grows the address space by exactly one page and returns its
// index.
func (a *AddressSpace) AppendPage() int {
	a.pages = append(a.pages, newMemoryBlock())
	return len(a.pages) - 1
}

// Read returns the cell at addr, or zero if addr falls on a page that does
// not exist yet. It never fails.
func (a *AddressSpace) Read(addr uint32) uint32 {
	p := page(addr)
	if int(p) >= len(a.pages) {
		return 0
	}
	return a.pages[p].cells[offset(addr)]
}

// Write stores val at addr. It returns an error if addr falls on a page that
// has not been allocated yet (via AppendPage / opcode NEW_PAGE) — the caller
// must turn this into a fatal MemoryFault rather than silently drop the
// write or panic.
func (a *AddressSpace) Write(addr uint32, val uint32) error {
	p := page(addr)
	if int(p) >= len(a.pages) {
		return fmt.Errorf("%w: write to unallocated page %d (addr %d)", ErrMemoryFault, p, addr)
	}
	a.pages[p].cells[offset(addr)] = val
	return nil
}

// Pointer yields a stable host pointer to the cell at addr for zero-copy
// inspection, or nil if the page does not exist. Pages are stored as
// pointers to fixed-size arrays, so the returned pointer stays valid across
// AppendPage calls — unlike a container that might reallocate a contiguous
// backing array, there is nothing here for growth to invalidate.
func (a *AddressSpace) Pointer(addr uint32) *uint32 {
	p := page(addr)
	if int(p) >= len(a.pages) {
		return nil
	}
	return &a.pages[p].cells[offset(addr)]
}
