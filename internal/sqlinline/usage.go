package sqlinline

// QIncrementUsageCounter creates the day's counter at 1 or bumps it while it
// is below $4. No row comes back when the counter is already full.
const QIncrementUsageCounter = `--sql 0debedf4-5705-486c-9acd-ff2c64a22294
insert into usage_counters(user_id, resource_type, day, count, updated_at)
values ($1::text, $2::text, $3::text::date, 1, now())
on conflict (user_id, resource_type, day) do update
set count = usage_counters.count + 1,
    updated_at = now()
where usage_counters.count < $4::int
returning count;
`

const QSelectUsageCounter = `--sql 1e771eec-5a61-49ef-ae76-03ba95488cbf
select count
from usage_counters
where user_id = $1::text
  and resource_type = $2::text
  and day = $3::text::date;
`

// QPurgeUsageCountersBefore removes counters of days that can no longer be
// incremented.
const QPurgeUsageCountersBefore = `--sql 9c3b7d15-2e64-4f0a-b8d1-6a5f2c7e9e40
delete from usage_counters
where day < $1::text::date;
`
