// Package rd integrates coupled reaction-diffusion equations
//
//	∂u_i/∂t = D_i ∇²u_i + R_i(u_1..u_n)
//
// on 0-, 1- or 2-dimensional grids with explicit Euler time stepping.
//
// The package is organised around a few small pieces:
//
//   - [Model]: reaction kinetics and diffusion constants for every field
//   - [Grid]: two named slots holding the current and previous time slice
//   - [Boundary]: zero (Dirichlet), noflux (Neumann) or periodic edges
//   - [Solver]: advances the grid, owns every write after seeding
//   - [Seeder]: writes initial conditions into the active slot
//
// # Example
//
//	m := models.NewFitzHughNagumo(1, 0)
//	s, err := rd.New(m, rd.Config{Dimension: rd.Dim1, Boundary: rd.NoFlux, Dt: 0.05, Dh: 0.5, NX: 200, NY: 1})
//	if err != nil {
//	    return err
//	}
//	s.Seeder().Patch(0, 1.0, 0, 0, 5)
//	if err := s.Advance(1000); err != nil {
//	    return err
//	}
//	v, _ := s.Value(0, 100, 0)
//
// # Stability
//
// There is no CFL check. Callers pick Dt and Dh inside the stable regime of
// explicit Euler for their model; for pure diffusion that means
// D*Dt/Dh² <= 1/(2*dimension).
//
// # Thread Safety
//
// A Solver is NOT safe for concurrent use. Readers must only look at the grid
// between calls to Advance. Run independent solvers in separate goroutines
// instead of sharing one.
package rd
