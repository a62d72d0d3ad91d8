package theme

import (
	"fmt"

	"github.com/dioramalab/diorama/internal/refs"
)

const moonbaseStyle = `
CRITICAL STYLE REQUIREMENTS:
- floating isometric lunar-regolith platform (20x20cm square), gray dusty surface with small craters and boot prints
- plain solid bright green background (#00FF00), completely flat with zero texture or grain
- harsh directional sunlight with deep shadows, black star-free sky implied by the flat backdrop
- claymation stop-motion style with maximum detail, centered in frame
- the platform layout and camera angle must never change between days
`

// Moonbase is a 200-day lunar construction story in four 50-day phases,
// using the same anchor-ledger consistency stack as the restoration theme
// with a five-day checkpoint interval.
func Moonbase() *Theme {
	return &Theme{
		Name:               "moonbase",
		Summary:            "lunar outpost built from a single supply crate to a glowing future city",
		Days:               200,
		BaseStyle:          moonbaseStyle,
		Refs:               refs.Dual{Anchor: 1, ResetInterval: 5},
		RefHint:            "day 1 + previous day, quality reset every 5th day",
		CheckpointInterval: 5,
		Improvements: map[int]string{
			10:  "solar array deployed",
			20:  "habitat dome pressurized",
			35:  "rover garage finished",
			50:  "communications dish raised",
			75:  "rocket first stage stacked",
			90:  "rocket fully stacked on the pad",
			100: "first rocket launched",
			120: "second habitat dome connected",
			135: "greenhouse dome growing crops",
			150: "base fully ringed by walkway lights",
			170: "monorail loop operating",
			190: "crystal tower topped out",
			200: "future city complete",
		},
		Phases: []Phase{
			{Start: 1, End: 50, Describe: moonbaseFoundation},
			{Start: 51, End: 100, Describe: moonbaseRocket},
			{Start: 101, End: 150, Describe: moonbaseExpansion},
			{Start: 151, End: 200, Describe: moonbaseFuture},
		},
	}
}

func moonbaseFoundation(day int) string {
	var state, action string
	switch {
	case day <= 5:
		state = fmt.Sprintf("%d silver supply crates stacked near the center, landing scorch mark on the regolith", day)
		action = "Supply drops arriving"
	case day <= 10:
		state = "crates opened, a folded solar array being unpacked by two suited astronauts"
		action = "Unpacking the solar array"
	case day <= 20:
		state = fmt.Sprintf("the solar array deployed and gleaming, a white habitat dome %d%% assembled from curved panels", (day-10)*10)
		action = "Dome assembly panel by panel"
	case day <= 35:
		state = "the pressurized dome with a glowing porthole, a rover garage taking shape beside it, a small rover parked outside"
		action = "Rover garage construction"
	default:
		state = "dome, garage, and solar array established; a communications dish being raised on a lattice mast"
		action = "Raising the comms dish"
	}
	return fmt.Sprintf(`SCENE ELEMENTS (all must be visible, Day %d - Foundation Phase):
  - %s
  - two astronauts in white suits with gold visors working
  - established structures in their fixed positions

TODAY'S ACTION: %s`, day, state, action)
}

func moonbaseRocket(day int) string {
	var state, action string
	switch {
	case day <= 65:
		state = "a launch pad of dark panels being laid at the platform's far corner, girder pile nearby"
		action = "Launch pad construction"
	case day <= 75:
		state = "the rocket's first stage - white with a red stripe - stacked on the pad by a lattice crane"
		action = "First stage stacked"
	case day <= 90:
		state = fmt.Sprintf("the rocket growing: %d of 3 stages stacked, crane alongside", 1+(day-75)/8)
		action = "Stacking continues"
	case day <= 99:
		state = "the complete rocket on the pad, fueling lines attached, frost on the lower stage"
		action = "Fueling and final checks"
	default:
		state = "LAUNCH! the rocket lifting off on a bright flame, dust blasting outward, astronauts watching"
		action = "First launch from the base"
	}
	return fmt.Sprintf(`SCENE ELEMENTS (all must be visible, Day %d - Rocket Phase):
  - the established base: dome, garage, solar array, comms dish
  - %s

TODAY'S ACTION: %s`, day, state, action)
}

func moonbaseExpansion(day int) string {
	var state, action string
	switch {
	case day <= 120:
		state = "a second habitat dome under construction, connected to the first by a white tunnel"
		action = "Second dome and tunnel"
	case day <= 135:
		state = "a transparent greenhouse dome with green crops glowing inside, irrigation lines visible"
		action = "Greenhouse coming alive"
	default:
		state = fmt.Sprintf("walkway lights being planted around the base perimeter, %d%% of the ring complete", (day-135)*100/15)
		action = "Lighting the perimeter walkway"
	}
	return fmt.Sprintf(`SCENE ELEMENTS (all must be visible, Day %d - Expansion Phase):
  - the established base with launch pad (rocket away)
  - %s
  - astronauts and the rover moving between structures

TODAY'S ACTION: %s`, day, state, action)
}

func moonbaseFuture(day int) string {
	var state, action string
	switch {
	case day <= 170:
		state = "a sleek monorail loop on slender pylons circling the domes, a small tram car gliding"
		action = "Monorail construction and first ride"
	case day <= 190:
		state = fmt.Sprintf("a faceted crystal tower rising at the center, %d%% of full height, lit from within", (day-170)*5)
		action = "Crystal tower rising"
	default:
		state = "the complete future city: twin domes, greenhouse, monorail, glowing crystal tower, every light on"
		action = "The future city shines - journey complete"
	}
	return fmt.Sprintf(`SCENE ELEMENTS (all must be visible, Day %d - Future Phase):
  - the fully built base from all previous phases
  - %s

TODAY'S ACTION: %s`, day, state, action)
}
