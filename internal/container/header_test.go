package container

import "encoding/binary"

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// buildFile assembles a minimal valid Bink1 byte stream: a 44-byte header,
// trackCount track headers, and a frameCount+1 frame offset table. It does
// not include any frame payload bytes.
func buildFile(revision byte, width, height, frameCount uint32, tracks []TrackHeader) []byte {
	total := headerSize + len(tracks)*trackHeaderSize + (int(frameCount)+1)*4
	buf := make([]byte, total)
	copy(buf[0:3], "BIK")
	buf[3] = revision
	putU32(buf, 4, 0)            // fileSize, unused by Parse
	putU32(buf, 8, frameCount)   // frameCount
	putU32(buf, 12, 1<<20)       // maxFrameSize
	putU32(buf, 16, frameCount)  // frameCount2
	putU32(buf, 20, width)
	putU32(buf, 24, height)
	putU32(buf, 28, 1) // fpsDividend
	putU32(buf, 32, 1) // fpsDivider
	putU32(buf, 36, 0) // videoFlags
	putU32(buf, 40, uint32(len(tracks)))

	off := headerSize
	for _, t := range tracks {
		binary.LittleEndian.PutUint16(buf[off:off+2], 0)
		binary.LittleEndian.PutUint16(buf[off+2:off+4], t.ChannelCount)
		binary.LittleEndian.PutUint16(buf[off+4:off+6], t.SampleRate)
		binary.LittleEndian.PutUint16(buf[off+6:off+8], t.Flags)
		putU32(buf, off+8, t.ID)
		off += trackHeaderSize
	}

	for i := 0; i <= int(frameCount); i++ {
		putU32(buf, off, uint32(i)*100) // strictly increasing, unambiguous keyframe bit
		off += 4
	}
	return buf
}
