package theme

import (
	"fmt"
	"strings"

	"github.com/dioramalab/diorama/internal/refs"
)

const restorationStyle = `
CRITICAL STYLE REQUIREMENTS:
- floating isometric concrete garage-floor platform (20x20cm square)
- concrete surface with realistic cracks, oil stains, and tire marks
- individual brick segments clustered at corners of the platform edge, never a continuous brick border
- plain solid bright blue background (#0000FF), completely flat with zero texture or grain
- neutral white studio lighting only
- claymation stop-motion style with maximum detail, centered in frame
- the car's position and orientation must never change between days
`

// restoDay is one scripted day of the restoration storyline.
type restoDay struct {
	elements []string
	action   string
}

var restorationScript = map[int]restoDay{
	1: {[]string{
		"a rusted hollow vintage coupe shell - detailed rust texture, no wheels, no engine, no doors, no glass",
	}, "The bare rusted shell sits alone on the platform"},
	2: {[]string{
		"the rusted coupe shell (same position and orientation as Day 1)",
		"NEW: a small red metal toolbox with visible latches in the far left corner",
	}, "A red toolbox has appeared"},
	3: {[]string{
		"the rusted coupe shell", "the red toolbox in the far left corner",
		"NEW: a chrome wrench on the floor near the car",
	}, "A wrench appears on the floor"},
	4: {[]string{
		"the rusted coupe shell", "the red toolbox", "the chrome wrench",
		"NEW: a scissor jack near the rear of the car",
	}, "A car jack is placed near the rear"},
	5: {[]string{
		"the rusted coupe shell", "the red toolbox", "the chrome wrench", "the scissor jack",
		"NEW: a bearded mechanic in blue overalls holding a clipboard, standing next to the car",
	}, "The mechanic arrives with a clipboard"},
	6: {[]string{
		"the rusted coupe shell", "the garage props in their established positions",
		"the mechanic, now holding a wire brush, scrubbing the car",
	}, "Mechanic scrubs rust with a wire brush"},
	7: {[]string{
		"the rusted coupe shell", "the garage props",
		"NEW: a wooden workbench with detailed wood grain in the back corner",
	}, "A wooden workbench appears"},
	8: {[]string{
		"the rusted coupe shell", "the garage props",
		"NEW: a desk lamp on the workbench, turned on",
	}, "A desk lamp is placed on the workbench"},
	9: {[]string{
		"the rusted coupe shell", "the garage props and workbench",
		"the mechanic under the car - only his legs in blue overalls visible",
	}, "Mechanic is under the car, only legs visible"},
	10: {[]string{
		"the rusted coupe shell", "the garage props and workbench",
		"NEW: one rusted wheel rim leaning against the workbench",
	}, "First wheel rim appears"},
	11: {[]string{
		"the rusted coupe shell", "the garage props",
		"TWO rusted wheel rims leaning against the workbench",
	}, "Second wheel rim appears"},
	12: {[]string{
		"the rusted coupe shell", "the garage props", "two wheel rims near the workbench",
		"the mechanic cleaning one rim with a cloth",
	}, "Mechanic cleaning the first wheel rim"},
	13: {[]string{
		"the rusted coupe shell", "the garage props",
		"ONE SHINY CHROME wheel rim (polished), one rusted rim next to it",
		"the mechanic standing proudly",
	}, "First wheel rim is now chrome"},
	14: {[]string{
		"the rusted coupe shell", "the garage props",
		"TWO SHINY CHROME wheel rims (both polished)",
	}, "Both wheel rims now chrome"},
	15: {[]string{
		"the rusted coupe shell", "the garage props",
		"two chrome rims, TWO NEW RUSTED rims just arrived (4 total)",
		"the mechanic examining the new rims",
	}, "Two more rusted wheel rims arrive"},
	16: {[]string{
		"the rusted coupe shell", "the garage props",
		"four rims - 2 chrome, 2 rusted", "the mechanic polishing the third rim",
	}, "Mechanic polishing third wheel rim"},
	17: {[]string{
		"the rusted coupe shell", "the garage props", "four rims - 3 chrome, 1 rusted",
		"NEW: a bare-metal engine block placed on the workbench",
	}, "Engine block appears on the workbench"},
	18: {[]string{
		"the rusted coupe shell", "the garage props", "FOUR CHROME rims, all polished",
		"the mechanic bolting a small part onto the engine",
	}, "Mechanic working on the engine, fourth rim polished"},
	19: {[]string{
		"the rusted coupe shell", "the garage props", "four chrome rims",
		"the engine block with spark plug wires added",
	}, "Spark plug wires added to the engine"},
	20: {[]string{
		"the rusted coupe shell", "the garage props", "four chrome rims",
		"the complete engine with fan belt and chrome cover",
		"NEW: a yellow engine hoist next to the car",
	}, "Engine complete, engine hoist appears"},
	21: {[]string{
		"the rusted coupe shell", "the garage props", "four chrome rims stacked",
		"the complete engine on a rolling cart",
		"the hoist positioned over the engine bay, the mechanic guiding chains",
	}, "Mechanic preparing to lift the engine into the car"},
	22: {[]string{
		"the rusted coupe shell", "the garage props",
		"the engine SUSPENDED from the hoist, hovering over the engine bay",
		"the mechanic watching carefully",
	}, "Engine suspended, being lowered into place"},
	23: {[]string{
		"the coupe shell with ENGINE INSTALLED in the bay", "the garage props",
		"the hoist moved to the side", "the mechanic connecting wires under the hood",
	}, "Engine installed, mechanic connecting wires"},
	24: {[]string{
		"the coupe with engine installed", "the garage props",
		"the mechanic lying under the car on a NEW rolling creeper, legs visible",
	}, "Mechanic under the car connecting the exhaust"},
	25: {[]string{
		"the coupe with engine installed", "the garage props",
		"NEW: a small red fire extinguisher in the corner",
		"the mechanic standing, wiping hands with a rag",
	}, "Fire extinguisher added for safety"},
}

const restorationScriptEnd = 25

// Restoration is the 200-day car rebuild with the full consistency stack:
// a day-1 quality anchor plus previous-day layout reference, quality-reset
// days, and the anchor/improvement ledger refreshed every three days.
func Restoration() *Theme {
	return &Theme{
		Name:               "restoration",
		Summary:            "vintage coupe rebuilt from rusted shell to champion, scene-locked by anchors",
		Days:               200,
		BaseStyle:          restorationStyle,
		Refs:               refs.Dual{Anchor: 1, ResetInterval: 3, ResetUntil: 109},
		RefHint:            "day 1 + previous day, quality reset every 3rd day through day 109",
		CheckpointInterval: 3,
		Improvements: map[int]string{
			13:  "first wheel rim polished to chrome",
			14:  "second wheel rim polished to chrome",
			17:  "third wheel rim polished to chrome",
			18:  "fourth wheel rim polished to chrome",
			20:  "engine fully assembled",
			23:  "engine installed in car",
			45:  "body fully sanded to bare metal",
			70:  "body primed in gray",
			95:  "body painted glossy silver",
			110: "wheels mounted on the car",
			125: "glass and chrome trim installed",
			140: "interior complete",
			150: "first engine start",
			172: "racing number painted on doors",
			185: "won the race",
			195: "full gold champion livery",
		},
		Phases: []Phase{
			{Start: 1, End: restorationScriptEnd, Describe: restorationScripted},
			{Start: restorationScriptEnd + 1, End: 60, Describe: restorationSanding},
			{Start: 61, End: 100, Describe: restorationPaint},
			{Start: 101, End: 150, Describe: restorationAssembly},
			{Start: 151, End: 200, Describe: restorationRacing},
		},
	}
}

func restorationScripted(day int) string {
	d := restorationScript[day]
	var b strings.Builder
	fmt.Fprintf(&b, "SCENE ELEMENTS (all must be visible):\n")
	for _, e := range d.elements {
		fmt.Fprintf(&b, "  - %s\n", e)
	}
	fmt.Fprintf(&b, "\nTODAY'S ACTION: %s\n", d.action)
	if day <= 15 {
		b.WriteString(`
DO NOT ADD (they don't exist yet):
- no wheels or tires on the car, no headlights, no bumpers, no chrome on the body
- no engine in the bay, no glass, no doors - the car is a hollow rusted shell
`)
	}
	return b.String()
}

func restorationSanding(day int) string {
	pct := (day - restorationScriptEnd) * 100 / (60 - restorationScriptEnd)
	return fmt.Sprintf(`SCENE ELEMENTS (all must be visible):
  - the coupe with engine installed, body roughly %d%% sanded to bare metal (sanded panels show dull silver, the rest still rusted)
  - the established garage: toolbox, workbench with lamp, four chrome rims, fire extinguisher
  - the mechanic sanding, surrounded by fine dust

TODAY'S ACTION: Sanding continues, more bare metal every day`, pct)
}

func restorationPaint(day int) string {
	var state, action string
	switch {
	case day <= 70:
		state = "bare-metal body being sprayed with gray primer, masking paper on the ground"
		action = "Primer coat going on"
	case day <= 90:
		state = fmt.Sprintf("primed body receiving glossy silver paint, roughly %d%% covered, spray gun in the mechanic's hands", (day-70)*5)
		action = "Silver paint building up coat by coat"
	default:
		state = "freshly painted glossy silver body curing under the lamp, masking removed"
		action = "Paint curing, the mechanic admiring the finish"
	}
	return fmt.Sprintf(`SCENE ELEMENTS (all must be visible):
  - the coupe: %s
  - the established garage props in their usual positions
  - the mechanic in blue overalls

TODAY'S ACTION: %s`, state, action)
}

func restorationAssembly(day int) string {
	var state, action string
	switch {
	case day <= 110:
		state = "silver-painted coupe having chrome-rimmed wheels with fresh tires mounted"
		action = "Wheels going on at last"
	case day <= 125:
		state = "silver coupe with wheels, glass and chrome trim being fitted piece by piece"
		action = "Glass and brightwork installation"
	case day <= 140:
		state = "the nearly complete coupe, red leather interior and dashboard being fitted"
		action = "Interior work"
	default:
		state = "the finished coupe - silver paint, chrome trim, red interior - hood open for final checks"
		action = "Final mechanical checks, first engine start approaching"
	}
	return fmt.Sprintf(`SCENE ELEMENTS (all must be visible):
  - %s
  - the established garage props
  - the mechanic hard at work

TODAY'S ACTION: %s`, state, action)
}

func restorationRacing(day int) string {
	var state, action string
	switch {
	case day <= 165:
		state = "the finished coupe gaining race preparation: roll bar, racing mirrors, tow hooks"
		action = "Race prep underway"
	case day <= 180:
		state = "the race coupe with a painted racing number on the doors, slick tires stacked nearby"
		action = "Race livery and final tuning"
	case day <= 190:
		state = "the race coupe fresh from the track - checkered flag on the workbench, a giant first-place trophy beside the car"
		action = "Victory! The trophy comes home"
	default:
		state = "the champion coupe with gold accent livery, trophy shelf full, championship banner on display"
		action = "The legend complete - museum-quality showpiece"
	}
	return fmt.Sprintf(`SCENE ELEMENTS (all must be visible):
  - %s
  - the established garage props
  - the proud mechanic

TODAY'S ACTION: %s`, state, action)
}
