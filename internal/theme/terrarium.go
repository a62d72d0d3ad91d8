package theme

import (
	"fmt"

	"github.com/dioramalab/diorama/internal/refs"
)

const terrariumStyle = `
A sealed glass jar terrarium photographed straight on,
round glass jar with a cork lid, sitting on a wooden table,
soft warm window light from the left, shallow depth of field,
layered substrate visible through the glass: drainage pebbles, charcoal, dark soil,
miniature diorama aesthetic, hyper-detailed macro photography,
the jar shape, table, and lighting must stay identical across days.
`

var terrariumMilestones = []int{1, 25, 50, 75, 100, 140, 200}

// Terrarium is the original 200-day sealed-jar world. Non-milestone days
// reference their nearest lower milestone, which caps how far any day sits
// from a trusted image; milestones are generated in a first pass.
func Terrarium() *Theme {
	return &Theme{
		Name:             "terrarium",
		Summary:          "sealed glass jar world, from bare soil to an ancient tree village",
		Days:             200,
		BaseStyle:        terrariumStyle,
		Refs:             refs.Milestone{Days: terrariumMilestones},
		RefHint:          "nearest lower milestone of [1 25 50 75 100 140 200]",
		Milestones:       terrariumMilestones,
		RetryWithoutRefs: true,
		Phases: []Phase{
			{Start: 1, End: 10, Describe: terrariumSeed},
			{Start: 11, End: 25, Describe: terrariumSeedling},
			{Start: 26, End: 50, Describe: terrariumYoungTree},
			{Start: 51, End: 75, Describe: terrariumEcosystem},
			{Start: 76, End: 100, Describe: terrariumFirstHouses},
			{Start: 101, End: 140, Describe: terrariumVillage},
			{Start: 141, End: 200, Describe: terrariumAncient},
		},
	}
}

func terrariumSeed(day int) string {
	var center string
	switch {
	case day <= 2:
		center = "a single seed pressed into the soil, condensation forming on the glass"
	case day <= 5:
		center = "the seed has cracked, a pale root visible against the glass, moss specks appearing"
	case day <= 8:
		center = fmt.Sprintf("a tiny sprout %dmm tall, seed shell lifting off, first moss patches", (day-5)*6)
	default:
		center = "a green sprout with two open cotyledons, moss spreading over the soil"
	}
	return fmt.Sprintf("INSIDE the jar (Day %d - Germination):\n- %s\n- soil dark and moist, droplets running down the inner glass", day, center)
}

func terrariumSeedling(day int) string {
	heightCM := 1.0 + float64(day-10)*0.3
	return fmt.Sprintf(`INSIDE the jar (Day %d - Seedling):
- a seedling %.1fcm tall with %d small oval leaves
- moss carpet covering a third of the soil, tiny ferns unfurling at the back
- a small white pebble path forming along the front glass`, day, heightCM, 2+(day-10)/2)
}

func terrariumYoungTree(day int) string {
	extras := ""
	if day >= 35 {
		extras += "\n- a springtail colony visible as tiny white dots on the soil"
	}
	if day >= 45 {
		extras += "\n- the first red-capped mushroom beside the trunk"
	}
	return fmt.Sprintf(`INSIDE the jar (Day %d - Young Tree):
- a young tree %.0fcm tall, trunk turning woody, branching into a small crown
- lush moss lawn, ferns at the back wall, pebble path complete%s`, day, 4.0+float64(day-25)*0.2, extras)
}

func terrariumEcosystem(day int) string {
	extras := ""
	if day >= 60 {
		extras += "\n- a tiny snail exploring the moss lawn"
	}
	if day >= 70 {
		extras += "\n- small white flowers opening on the lower branches"
	}
	return fmt.Sprintf(`INSIDE the jar (Day %d - Living Ecosystem):
- the tree reaches halfway up the jar, crown rounded and dense
- ground layer fully grown: moss hills, fern grove, mushroom cluster
- condensation cycle visible, droplets on the upper glass%s`, day, extras)
}

func terrariumFirstHouses(day int) string {
	return fmt.Sprintf(`INSIDE the jar (Day %d - First Houses):
- the tree is tall and established, crown touching the jar shoulders
- %d tiny mushroom-roofed houses at the base of the trunk
- a lantern string with warm glowing dots between the houses
- a stepping-stone path winding from the houses to the fern grove`, day, 1+(day-76)/8)
}

func terrariumVillage(day int) string {
	extras := ""
	if day >= 115 {
		extras += "\n- a rope bridge of twigs between two low branches"
	}
	if day >= 130 {
		extras += "\n- a tiny treehouse platform in the lower crown"
	}
	return fmt.Sprintf(`INSIDE the jar (Day %d - Village):
- a full village around the trunk: houses, market stalls, lantern strings
- tiny clay villagers going about their day
- the canopy fills the top third of the jar, small flowers throughout%s`, day, extras)
}

func terrariumAncient(day int) string {
	extras := ""
	if day >= 170 {
		extras += "\n- festival flags strung through the canopy"
	}
	if day >= 195 {
		extras += "\n- the whole jar glowing warmly, every lantern lit"
	}
	return fmt.Sprintf(`INSIDE the jar (Day %d - Ancient Tree World):
- a massive ancient trunk with beautiful bark texture
- the canopy touches the top and sides of the glass
- abundant flowers, some aerial roots hanging down
- the thriving village wraps the trunk, bridges and treehouse occupied
- the tree looks wise and magnificent%s
Day %d - a complete thriving world under an ancient tree.`, day, extras, day)
}
