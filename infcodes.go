package zflate

// codesDecoder decodes the literal/length and distance symbols of one
// Huffman-coded block.  Every state can be suspended and resumed without
// losing or repeating input bits.
type codesDecoder struct {
	mode   codesMode
	ll     *huffmanDecoder
	d      *huffmanDecoder
	lit    byte
	extra  byte
	length int
	dist   int
}

func (c *codesDecoder) init(ll *huffmanDecoder, d *huffmanDecoder) {
	*c = codesDecoder{mode: startCodesMode, ll: ll, d: d}
}

func (c *codesDecoder) fail(bd *blockDecoder, msg string) Status {
	c.mode = badCodesMode
	bd.strm.Msg = msg
	return ErrData
}

// decode returns StreamEnd once the end-of-block code has been decoded and
// all output of the block has been delivered, Ok if suspended, or ErrData.
func (c *codesDecoder) decode(bd *blockDecoder) Status {
	for {
		switch c.mode {
		case startCodesMode:
			if bd.wavail() >= maxMatch && len(bd.strm.NextIn) >= 10 {
				switch bd.inflateFast(c.ll, c.d) {
				case StreamEnd:
					c.mode = washCodesMode
					continue
				case ErrData:
					c.mode = badCodesMode
					continue
				}
			}
			c.mode = lenCodesMode

		case lenCodesMode:
			sym, size, ok, valid := bd.peekSym(c.ll)
			if !valid {
				return c.fail(bd, "invalid literal/length code")
			}
			if !ok {
				return Ok
			}
			bd.dump(size)
			switch {
			case sym < numLiterals:
				c.lit = byte(sym)
				c.mode = litCodesMode
			case sym == endBlock:
				c.mode = washCodesMode
			case sym-endBlock-1 < numLengthCodes:
				i := sym - endBlock - 1
				c.length = int(lengthBase[i])
				c.extra = extraLLBits[i]
				c.mode = lenExtCodesMode
			default:
				return c.fail(bd, "invalid literal/length code")
			}

		case lenExtCodesMode:
			if !bd.need(c.extra) {
				return Ok
			}
			c.length += int(bd.peek(c.extra))
			bd.dump(c.extra)
			c.mode = distCodesMode

		case distCodesMode:
			sym, size, ok, valid := bd.peekSym(c.d)
			if !valid {
				return c.fail(bd, "invalid distance code")
			}
			if !ok {
				return Ok
			}
			bd.dump(size)
			if sym >= logicalNumDCodes {
				return c.fail(bd, "invalid distance code")
			}
			c.dist = int(distBase[sym])
			c.extra = extraDBits[sym]
			c.mode = distExtCodesMode

		case distExtCodesMode:
			if !bd.need(c.extra) {
				return Ok
			}
			c.dist += int(bd.peek(c.extra))
			bd.dump(c.extra)
			if c.dist > bd.have {
				return c.fail(bd, "invalid distance too far back")
			}
			c.mode = copyCodesMode

		case copyCodesMode:
			for c.length > 0 {
				if !bd.needOut() {
					return Ok
				}
				from := bd.write - c.dist
				if from < 0 {
					from += len(bd.window)
				}
				bd.outByte(bd.window[from])
				c.length--
			}
			c.mode = startCodesMode

		case litCodesMode:
			if !bd.needOut() {
				return Ok
			}
			bd.outByte(c.lit)
			c.mode = startCodesMode

		case washCodesMode:
			bd.flush()
			if bd.read != bd.write {
				return Ok
			}
			c.mode = endCodesMode

		case endCodesMode:
			return StreamEnd

		default:
			return ErrData
		}
	}
}
