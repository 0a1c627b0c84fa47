// Package constants holds the physical constants and unit conventions
// heliotrace assumes everywhere: lengths in AU, time in days, mass
// expressed only as GM in AU^3/day^2, heliocentric ecliptic J2000 frame.
//
// These values are fixed by the wire contract, not configurable: changing
// any of them changes results for every consumer of this module.
package constants

import "math"

// GMSun is the Sun's gravitational parameter in AU^3/day^2.
const GMSun = 2.959122082855911e-4

// ObliquityDeg is the J2000 mean obliquity of the ecliptic in degrees,
// used to rotate equatorial ephemeris positions into the ecliptic frame
// heliotrace works in internally.
const ObliquityDeg = 23.439281

// ObliquityRad is ObliquityDeg in radians.
var ObliquityRad = ObliquityDeg * math.Pi / 180.0

// AUPerKm converts kilometers to astronomical units.
const AUPerKm = 1.0 / 1.495978707e8

// Planet identifies one of the bodies heliotrace's ephemeris and N-body
// layers know about.
type Planet string

const (
	Mercury Planet = "mercury"
	Venus   Planet = "venus"
	Earth   Planet = "earth"
	Mars    Planet = "mars"
	Jupiter Planet = "jupiter"
	Saturn  Planet = "saturn"
	Uranus  Planet = "uranus"
	Neptune Planet = "neptune"
)

// PlanetGM is the IAU 2015 resolution B3 table of planetary (system)
// gravitational parameters, converted from km^3/s^2 to AU^3/day^2.
var PlanetGM = map[Planet]float64{
	Mercury: 2.2031868551e4 * kmsToAUday,
	Venus:   3.24858592e5 * kmsToAUday,
	Earth:   3.98600435507e5 * kmsToAUday,
	Mars:    4.282837362069e4 * kmsToAUday,
	Jupiter: 1.26686531900e8 * kmsToAUday,
	Saturn:  3.79312077400e7 * kmsToAUday,
	Uranus:  5.79395132400e6 * kmsToAUday,
	Neptune: 6.83509999800e6 * kmsToAUday,
}

// kmsToAUday converts a GM value expressed in km^3/s^2 to AU^3/day^2:
// 1 AU^3 = (km-per-AU)^3 km^3, 1 day^2 = (s-per-day)^2 s^2.
const secPerDay = 86400.0
const kmPerAU = 1.495978707e8

var kmsToAUday = (secPerDay * secPerDay) / (kmPerAU * kmPerAU * kmPerAU)

// DefaultPlanets is the default N-body perturber set: the gas giants,
// which dominate small-body perturbations over typical horizons.
var DefaultPlanets = []Planet{Jupiter, Saturn, Uranus, Neptune}

// J2000 is the Julian Date of the J2000.0 epoch.
const J2000 = 2451545.0
