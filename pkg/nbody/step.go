package nbody

import "math"

// Dormand-Prince 8(5,3) Butcher tableau (DOP853): a 13-stage,
// first-same-as-last embedded pair with an 8th-order solution and a
// combined 5th/3rd-order error estimate, per Hairer & Wanner's "Solving
// Ordinary Differential Equations I", the coefficients this package's
// accuracy budget is built around. dop853A[i] gives the a_ij row used to
// build the i-th stage's argument from the previous stages' derivatives;
// row 12 equals dop853B exactly, so stage 12's argument is the accepted
// solution itself and its derivative is reused as the next step's f0
// under FSAL.
var dop853C = [13]float64{
	0,
	0.526001519587677318785587544488e-01,
	0.789002279381515978178381316732e-01,
	0.118350341907227396726757197510e+00,
	0.281649658092772603273242802490e+00,
	0.333333333333333333333333333333e+00,
	0.25e+00,
	0.307692307692307692307692307692e+00,
	0.651282051282051282051282051282e+00,
	0.6e+00,
	0.857142857142857142857142857142e+00,
	1.0,
	1.0,
}

var dop853A = [13][12]float64{
	{},
	{0.526001519587677318785587544488e-01},
	{0.197624657374546434361956415887e-01, 0.592873972123639303085869247662e-01},
	{0.295336986061819651542934623831e-01, 0, 0.886010958185458954628803871492e-01},
	{0.241365134159266685502369798665e+00, 0, -0.884549479328286085344864962717e+00, 0.924834003261792003115737966543e+00},
	{0.37037037037037037037037037037e-01, 0, 0, 0.170828608729473871279604482173e+00, 0.125467687566822425016691814123e+00},
	{0.37109375e-01, 0, 0, 0.170252211019544039314978060272e+00, 0.602165389804559606850219397283e-01, -0.17578125e-01},
	{0.370920001185047927108779319836e-01, 0, 0, 0.170383925712239993810214054705e+00, 0.107262030446373284651809199168e+00, -0.153194377486244017527936158236e-01, 0.827378916381402288758473766002e-02},
	{0.624110958716075717114429577812e+00, 0, 0, -0.336089262944694129406857109825e+01, -0.868219346841726006818189891453e+00, 0.275920996994467083049415600797e+02, 0.201540675504778934086186788979e+02, -0.434898841810699588477366255144e+02},
	{0.477662536438264365890433908527e+00, 0, 0, -0.248811461997166764192642586468e+01, -0.590290826836842996371446475743e+00, 0.212300514481811942347288949897e+02, 0.152792336328824235832596922938e+02, -0.332882109689848629194453265587e+02, -0.203312017085086261358222928593e-01},
	{-0.93714243008598732571704021658e+00, 0, 0, 0.518637242884406370830023853209e+01, 0.109143734899672957818500254654e+01, -0.814978701074692612513997267357e+01, -0.185200656599969598641566180701e+02, 0.227394870993505042818970056734e+02, 0.249360555267965238987089396762e+01, -0.30467644718982195003823669022e+01},
	{0.227331014751653820792359768449e+01, 0, 0, -0.105344954667372501984066689879e+02, -0.200087205822486249909675718444e+01, -0.179589318631187989172765950534e+02, 0.279488845294199600508499808837e+02, -0.285899827713502369474065508674e+01, -0.88728569335306295443354928926e+01, 0.123605671757943030647266201528e+02, 0.643392746015763530355970484046e+00},
	{0.542937341165687622380535766363e-01, 0, 0, 0, 0, 0.445031289275240888144113950566e+01, 0.189151789931450038304281599044e+01, -0.58012039600105847814672114227e+01, 0.311164366957819894408916062370e+00, -0.152160949662516078556178806805e+00, 0.201365400804030348374776537501e+00, 0.447106157277725905176885569043e-01},
}

// dop853B is the 8th-order solution's weight vector; it is also row 12 of
// dop853A, since DOP853's FSAL stage evaluates the derivative at the
// accepted solution point.
var dop853B = [12]float64{
	0.542937341165687622380535766363e-01, 0, 0, 0, 0,
	0.445031289275240888144113950566e+01,
	0.189151789931450038304281599044e+01,
	-0.58012039600105847814672114227e+01,
	0.311164366957819894408916062370e+00,
	-0.152160949662516078556178806805e+00,
	0.201365400804030348374776537501e+00,
	0.447106157277725905176885569043e-01,
}

// dop853E5 weights the stage derivatives into the 5th-order error
// indicator (Hairer's "err"); every coefficient not listed is zero.
var dop853E5 = [12]float64{
	0.1312004499419488073250102996e-01, 0, 0, 0, 0,
	-0.1225156446376204440720569753e+01,
	-0.4957589496572501915214079952e+00,
	0.1664377182454986536961530415e+01,
	-0.3503288487499736816886487290e+00,
	0.3341791187130174790297318841e+00,
	0.8192320648511571246570742613e-01,
	-0.2235530786388629525884427845e-01,
}

// dop853BHH are the three weights comparing the dop853B-weighted slope
// against stages 1, 9, and 12 to form the 3rd-order error indicator (Hairer's
// "err2"), combined with dop853E5's estimate to avoid the single
// embedded estimator's known failure modes on near-resonant steps.
var dop853BHH = [3]float64{
	0.244094488188976377952755905512e+00,
	0.733846688281611857341361741547e+00,
	0.220588235294117647058823529412e-01,
}

// dop853EmbeddedOrder is the step controller's scaling exponent base: the
// combined 5th/3rd-order error estimate is treated, per Hairer's dop853,
// as representative of an 8th-order method's local truncation error, so
// the PI controller exponents use order 7 (giving the 1/8 base exponent
// the reference implementation uses).
const dop853EmbeddedOrder = 7

// rhsFunc evaluates the system's right-hand side at (t, y).
type rhsFunc func(t float64, y state) (state, error)

// dop853Step advances one embedded Dormand-Prince 8(5,3) step of size h
// from (t0, y0, f0) where f0 = rhs(t0, y0) is reused from the previous
// step's last stage under the FSAL property (or computed fresh for the
// first step). Returns the 8th-order solution y8, the combined local
// error norm (already weighted by rtol/atol against y0 and y8), and the
// derivative at the new point (stage 12, reusable as the next step's
// f0).
func dop853Step(rhs rhsFunc, t0 float64, y0 state, f0 state, h, rtol, atol float64) (y8, fNext state, errNorm float64, err error) {
	var k [13]state
	k[0] = f0

	for i := 1; i < 13; i++ {
		arg := combine(y0, h, dop853A[i][:i], k[:i])
		ki, e := rhs(t0+dop853C[i]*h, arg)
		if e != nil {
			return state{}, state{}, 0, e
		}
		k[i] = ki
	}

	y8 = combine(y0, h, dop853B[:], k[:12])
	fNext = k[12] // FSAL: stage 12's argument equals y8 since its A-row equals dop853B.

	errNorm = dop853ErrorNorm(y0, y8, k, h, rtol, atol)
	return y8, fNext, errNorm, nil
}

// dop853ErrorNorm implements Hairer's combined 5th/3rd-order error
// estimate: each phase component's 5th-order indicator (dop853E5) and
// 3rd-order indicator (the dop853B-weighted slope vs. the
// dop853BHH-weighted stages 1, 9, 12) are both scaled by (atol + rtol*max(|y0_i|, |y8_i|)),
// then combined as err/sqrt(n*(err+0.01*err2)) so a step where the
// 5th-order indicator alone would read as spuriously small (e.g. a
// near-resonant configuration) cannot be accepted on its error estimate
// alone.
func dop853ErrorNorm(y0, y8 state, k [13]state, h, rtol, atol float64) float64 {
	scale := func(a, b float64) float64 {
		return atol + rtol*math.Max(math.Abs(a), math.Abs(b))
	}

	var err, err2 float64
	comp := func(y0c, y8c float64, kc [13]float64) {
		sk := scale(y0c, y8c)

		var e5 float64
		for i := 0; i < 12; i++ {
			if dop853E5[i] != 0 {
				e5 += dop853E5[i] * kc[i]
			}
		}
		var bsum float64
		for i := 0; i < 12; i++ {
			bsum += dop853B[i] * kc[i]
		}
		e3 := bsum - dop853BHH[0]*kc[0] - dop853BHH[1]*kc[8] - dop853BHH[2]*kc[11]

		err += (e5 / sk) * (e5 / sk)
		err2 += (e3 / sk) * (e3 / sk)
	}

	kcomp := func(sel func(state) float64) [13]float64 {
		var out [13]float64
		for i := 0; i < 13; i++ {
			out[i] = sel(k[i])
		}
		return out
	}

	comp(y0.R.X, y8.R.X, kcomp(func(s state) float64 { return s.R.X }))
	comp(y0.R.Y, y8.R.Y, kcomp(func(s state) float64 { return s.R.Y }))
	comp(y0.R.Z, y8.R.Z, kcomp(func(s state) float64 { return s.R.Z }))
	comp(y0.V.X, y8.V.X, kcomp(func(s state) float64 { return s.V.X }))
	comp(y0.V.Y, y8.V.Y, kcomp(func(s state) float64 { return s.V.Y }))
	comp(y0.V.Z, y8.V.Z, kcomp(func(s state) float64 { return s.V.Z }))

	const n = 6
	deno := err + 0.01*err2
	if deno <= 0 {
		deno = 1
	}
	return math.Abs(h) * err / math.Sqrt(n*deno)
}

// stepController implements PI step-size control for the embedded pair:
// the new step scales the old one by a factor derived from both the
// current and the previous accepted step's error estimate, which damps
// the step-size oscillation a plain elementary controller shows across
// close-encounter transients.
type stepController struct {
	prevErr float64 // previous accepted step's error norm; 1 until the first step
	safety  float64
	minFac  float64
	maxFac  float64
}

func newStepController() *stepController {
	return &stepController{prevErr: 1, safety: 0.9, minFac: 0.2, maxFac: 5}
}

func (c *stepController) next(h, errNorm float64) (hNew float64, accept bool) {
	accept = errNorm <= 1
	const alpha = 0.7 / (dop853EmbeddedOrder + 1)
	const beta = 0.4 / (dop853EmbeddedOrder + 1)

	errSafe := math.Max(errNorm, 1e-12)
	prevSafe := math.Max(c.prevErr, 1e-12)

	fac := c.safety * math.Pow(1/errSafe, alpha) * math.Pow(prevSafe, beta)
	fac = math.Max(c.minFac, math.Min(c.maxFac, fac))
	hNew = h * fac

	if accept {
		c.prevErr = errNorm
	}
	return hNew, accept
}
