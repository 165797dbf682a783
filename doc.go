/*
latticed is a node keeping the ledger of a block-lattice cryptocurrency,
where every account owns its own chain of blocks.

It validates incoming blocks against the ledger, writes them in batches,
parks blocks whose dependencies haven't arrived yet and cements blocks
once they are confirmed.

Usage:

	latticed [OPTIONS]

Use latticed -h to list the available options. Options can also be set in
latticed.conf, in the application data directory by default.
*/
package main
