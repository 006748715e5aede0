package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Binary record sizes. These are parsed by fixed offset on the tracker
// MCU and must never change without a version bump of both sides.
// All multi-byte fields are little-endian.
const (
	SampleRecordSize = 19 // hour, minute, daylight flag, 2 raw doubles
	DayRecordSize    = 14 // month, day, 3x (time + whole-degree angle)
)

// SampleRecord is one per-tick solar position sample.
type SampleRecord struct {
	Hour     uint8
	Minute   uint8
	Daylight bool
	Azimuth  float64
	Zenith   float64
}

// EncodeCSV renders the sample as one daily CSV line:
// HH:MM,<daylight 0|1>,<azimuth %.3f>,<zenith %.3f>
func (r SampleRecord) EncodeCSV() string {
	flag := 0
	if r.Daylight {
		flag = 1
	}
	return fmt.Sprintf("%02d:%02d,%d,%.3f,%.3f\n", r.Hour, r.Minute, flag, r.Azimuth, r.Zenith)
}

// EncodeBinary renders the 19-byte sample record. The angle doubles
// are raw IEEE-754 bits, little-endian.
func (r SampleRecord) EncodeBinary() []byte {
	buf := make([]byte, SampleRecordSize)
	buf[0] = r.Hour
	buf[1] = r.Minute
	if r.Daylight {
		buf[2] = 1
	}
	binary.LittleEndian.PutUint64(buf[3:11], math.Float64bits(r.Azimuth))
	binary.LittleEndian.PutUint64(buf[11:19], math.Float64bits(r.Zenith))
	return buf
}

// DecodeSampleRecord parses a 19-byte sample record.
func DecodeSampleRecord(buf []byte) (SampleRecord, error) {
	if len(buf) != SampleRecordSize {
		return SampleRecord{}, fmt.Errorf("sample record must be %d bytes, got %d",
			SampleRecordSize, len(buf))
	}
	return SampleRecord{
		Hour:     buf[0],
		Minute:   buf[1],
		Daylight: buf[2] != 0,
		Azimuth:  math.Float64frombits(binary.LittleEndian.Uint64(buf[3:11])),
		Zenith:   math.Float64frombits(binary.LittleEndian.Uint64(buf[11:19])),
	}, nil
}

// EncodeCSV renders the day summary as one yearly CSV line:
// YYYY-MM-DD,HH:MM,<rise az>,HH:MM,<transit elev>,HH:MM,<set az>
func (e DayEvents) EncodeCSV() string {
	return fmt.Sprintf("%04d-%02d-%02d,%02d:%02d,%d,%02d:%02d,%d,%02d:%02d,%d\n",
		e.Date.Year(), int(e.Date.Month()), e.Date.Day(),
		e.Rise.Hour(), e.Rise.Minute(), e.RiseAzimuth,
		e.Transit.Hour(), e.Transit.Minute(), e.TransitElevation,
		e.Set.Hour(), e.Set.Minute(), e.SetAzimuth)
}

// EncodeBinary renders the 14-byte day-summary record.
func (e DayEvents) EncodeBinary() []byte {
	buf := make([]byte, DayRecordSize)
	buf[0] = uint8(e.Date.Month())
	buf[1] = uint8(e.Date.Day())
	buf[2] = uint8(e.Rise.Hour())
	buf[3] = uint8(e.Rise.Minute())
	binary.LittleEndian.PutUint16(buf[4:6], e.RiseAzimuth)
	buf[6] = uint8(e.Transit.Hour())
	buf[7] = uint8(e.Transit.Minute())
	binary.LittleEndian.PutUint16(buf[8:10], uint16(e.TransitElevation))
	buf[10] = uint8(e.Set.Hour())
	buf[11] = uint8(e.Set.Minute())
	binary.LittleEndian.PutUint16(buf[12:14], e.SetAzimuth)
	return buf
}

// DayRecord is the decoded form of a 14-byte day-summary record, used
// by consumers that read the yearly binary file back.
type DayRecord struct {
	Month            uint8
	Day              uint8
	RiseHour         uint8
	RiseMinute       uint8
	RiseAzimuth      uint16
	TransitHour      uint8
	TransitMinute    uint8
	TransitElevation int16
	SetHour          uint8
	SetMinute        uint8
	SetAzimuth       uint16
}

// DecodeDayRecord parses a 14-byte day-summary record.
func DecodeDayRecord(buf []byte) (DayRecord, error) {
	if len(buf) != DayRecordSize {
		return DayRecord{}, fmt.Errorf("day record must be %d bytes, got %d",
			DayRecordSize, len(buf))
	}
	return DayRecord{
		Month:            buf[0],
		Day:              buf[1],
		RiseHour:         buf[2],
		RiseMinute:       buf[3],
		RiseAzimuth:      binary.LittleEndian.Uint16(buf[4:6]),
		TransitHour:      buf[6],
		TransitMinute:    buf[7],
		TransitElevation: int16(binary.LittleEndian.Uint16(buf[8:10])),
		SetHour:          buf[10],
		SetMinute:        buf[11],
		SetAzimuth:       binary.LittleEndian.Uint16(buf[12:14]),
	}, nil
}
