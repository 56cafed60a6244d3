/*
altusrx decodes AltOS rocket telemetry from demodulated bit streams.

Each channel is a stream of hard bits from an external FSK demodulator, one
per radio channel. The decoder searches each stream for the 0xD391 sync word,
de-interleaves and Viterbi decodes the convolutionally coded message,
removes the PN9 whitening and checks the CRC-16 before dispatching the 36
byte message on its type code.

Command-line Flags:

	-config=""

Path to a yaml config file. Flags given on the command line override values
in the file. An example:

	channels:
	  - freq: 434550000
	    input: ch1.bits
	    format: byte
	  - input: ch2.bits      # takes the next standard channel, 434.650 MHz
	output: json
	keep_invalid: false
	unique: true
	serials: [4321]
	log:
	  level: info
	  file: altusrx.log
	metrics_addr: ":9100"

	-input="" -informat="byte" -freq=434.550

Adds a single channel reading from the given file, or stdin for "-". Formats
are byte (one byte per bit, 0xFF marks a loss of lock), ascii ('0' and '1',
'|' marks a loss of lock) and packed (eight bits per byte, MSB first).

	-format="plain"

Sets the record output format: plain, csv, json or xml. Plain text is
formatted as:

	{Time:%s Freq:%s Valid:%v %s:{Serial:%5d RTime:%5d Type:0x%02X ...}}

JSON records carry serial, freq (MHz), type, rtime, time (ms since the
epoch), raw (hex) and valid alongside the fields of each record kind. For
json and xml output each line is an element, there is no root node.

	-keepinvalid=false

Output messages that fail the checksum with valid set to false. They are
discarded by default.

	-filterserial="" -filtertype=""

Display only messages matching a serial or type code in a comma separated
list. Hexadecimal values take a 0x prefix.

	-unique=false

Suppress a message when it is identical to the last message of the same type
from the same transmitter.

	-single=false

Exit after the first message.

	-duration=0

Time to run for, 0 for infinite.

	-loglevel="info" -logfile=""

Logs are written to stderr, and also to a rotated file when one is given.

	-metrics=""

Serves Prometheus counters of decoded frames and resynchronizations per
channel on the given address.

	-generate=0 -ber=0 -seed=1

Writes reference packets of every known type to stdout in -informat and
exits, flipping bits at the given error rate. The output can be fed back in
with -input.

Every flag may also be set by an environment variable of the form
ALTUSRX_<FLAG>, ex. ALTUSRX_FORMAT=json.
*/
package main
