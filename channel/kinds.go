package channel

// Every record kind registers itself with parse on import.
import (
	_ "github.com/klawil/gnuradio-rocket-tracker/companion"
	_ "github.com/klawil/gnuradio-rocket-tracker/configuration"
	_ "github.com/klawil/gnuradio-rocket-tracker/location"
	_ "github.com/klawil/gnuradio-rocket-tracker/megadata"
	_ "github.com/klawil/gnuradio-rocket-tracker/meganorm"
	_ "github.com/klawil/gnuradio-rocket-tracker/megasensor"
	_ "github.com/klawil/gnuradio-rocket-tracker/metrum"
	_ "github.com/klawil/gnuradio-rocket-tracker/mini"
	_ "github.com/klawil/gnuradio-rocket-tracker/satellite"
	_ "github.com/klawil/gnuradio-rocket-tracker/sensor"
)
